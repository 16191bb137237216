// Command bot plays Art of War against a running server through its REST
// API. It resets its session between attempts and stops at the first win.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/strategy"
)

func main() {
	cmd := &cli.Command{
		Name:  "bot",
		Usage: "play Art of War sessions over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("ARTOFWAR_URL")},
			&cli.StringFlag{Name: "config", Usage: "config ID for a new session (server default when empty)"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "file remembering the last session ID"},
			&cli.IntFlag{Name: "attempts", Value: 10, Usage: "attempts before giving up"},
			&cli.IntFlag{Name: "rounds", Value: 40, Usage: "army moves per attempt"},
			&cli.IntFlag{Name: "steps", Value: 25, Usage: "generations between army moves"},
			&cli.IntFlag{Name: "jitter", Value: 3, Usage: "random spread added to move scores"},
			&cli.IntFlag{Name: "seed", Usage: "seed for the bot's own randomness (random when 0)"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("v"))
	defer logger.Sync()

	steps := int(cmd.Int("steps"))
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", steps)
	}

	logger.Info("connecting to game server", zap.String("url", cmd.String("url")))
	client := NewClient(cmd.String("url"))

	if err := openSession(ctx, client, cmd, logger); err != nil {
		return err
	}

	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = engine.NewSeed()
	}
	s := strategy.NewSystematic(engine.NewRandom(seed), logger)
	s.Jitter = int(cmd.Int("jitter"))

	results, err := Play(ctx, client, s, PlayOptions{
		Attempts:      int(cmd.Int("attempts")),
		Rounds:        int(cmd.Int("rounds")),
		StepsPerRound: steps,
	}, logger)
	if err != nil {
		return err
	}

	if n := len(results); n > 0 && results[n-1].Won() {
		last := results[n-1]
		logger.Info("victory",
			zap.String("session_id", client.SessionID()),
			zap.Int("attempt", last.Attempt),
			zap.Int("generation", last.Outcome.Generation))
		return nil
	}
	return fmt.Errorf("no victory after %d attempts (session %s)", len(results), client.SessionID())
}

// openSession resumes the requested or remembered session, or creates a new
// one and remembers it
func openSession(ctx context.Context, client *Client, cmd *cli.Command, logger *zap.Logger) error {
	sessionFile := cmd.String("session-file")

	saved := cmd.String("continue")
	if saved == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			saved = string(bytes.TrimSpace(data))
		}
	}

	if saved != "" {
		client.UseSession(saved)
		if _, err := client.GetState(ctx); err == nil {
			logger.Info("resuming session", zap.String("session_id", saved))
			return nil
		}
		logger.Warn("saved session is gone, creating a new one", zap.String("session_id", saved))
	}

	info, err := client.CreateSession(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	logger.Info("session created",
		zap.String("session_id", info.ID),
		zap.String("config", info.ConfigName),
		zap.Int64("seed", info.Seed))

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(info.ID), 0o644); err != nil {
			logger.Warn("failed to save session ID", zap.Error(err))
		}
	}
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
