// Command watch follows a game session over the server's WebSocket feed and
// redraws the board in the terminal on every update.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/artofwar/game/engine"
	hub "github.com/wricardo/artofwar/transport/websocket"
)

const clearScreen = "\033[H\033[2J"

// WatchOptions controls how updates are rendered
type WatchOptions struct {
	// MaxUpdates stops after this many state updates; 0 means no limit
	MaxUpdates int
	Clear      bool
}

// feedURL turns the server's HTTP base URL into the session's WebSocket URL
func feedURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid server URL")
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"session": {sessionID}}.Encode()
	return u.String(), nil
}

// Watch renders every update for sessionID to out until the game ends, the
// session is deleted, MaxUpdates is reached or ctx is cancelled
func Watch(ctx context.Context, baseURL, sessionID string, out io.Writer, opts WatchOptions) error {
	wsURL, err := feedURL(baseURL, sessionID)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return errors.Wrapf(err, "connect to %s (HTTP %d)", wsURL, resp.StatusCode)
		}
		return errors.Wrapf(err, "connect to %s", wsURL)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	updates := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "read update")
		}

		var msg hub.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			fmt.Fprintf(out, "skipping malformed update: %v\n", err)
			continue
		}

		switch msg.Event {
		case hub.EventSessionGone:
			fmt.Fprintf(out, "Session %s was deleted\n", sessionID)
			return nil
		case hub.EventGameOver:
			fmt.Fprintln(out, "Game over")
			return nil
		}

		if msg.GameState == nil {
			continue
		}
		if opts.Clear {
			io.WriteString(out, clearScreen)
		}
		renderState(out, sessionID, msg.GameState)

		updates++
		if opts.MaxUpdates > 0 && updates >= opts.MaxUpdates {
			return nil
		}
	}
}

func renderState(w io.Writer, sessionID string, state *engine.GameState) {
	fmt.Fprintf(w, "Session %s | Generation: %d | Phase: %s\n", sessionID, state.Generation, state.Phase)
	fmt.Fprintf(w, "Player bases %d armies %d | Computer bases %d armies %d\n",
		state.Bases.Player, state.Armies.Player, state.Bases.Computer, state.Armies.Computer)

	row := make([]byte, 0, state.Width)
	for _, cells := range state.Grid {
		row = row[:0]
		for _, cell := range cells {
			row = append(row, cell.Symbol())
		}
		fmt.Fprintf(w, "%s\n", row)
	}
	if state.Message != "" {
		fmt.Fprintln(w, state.Message)
	}
}

func main() {
	cmd := &cli.Command{
		Name:      "watch",
		Usage:     "follow a game session's board live",
		ArgsUsage: "<session-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("ARTOFWAR_URL")},
			&cli.IntFlag{Name: "max-updates", Usage: "stop after this many updates (0 = no limit)"},
			&cli.BoolFlag{Name: "clear", Value: true, Usage: "clear the terminal between frames"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sessionID := cmd.Args().First()
			if sessionID == "" {
				return errors.New("a session ID is required")
			}
			return Watch(ctx, cmd.String("url"), sessionID, os.Stdout, WatchOptions{
				MaxUpdates: int(cmd.Int("max-updates")),
				Clear:      cmd.Bool("clear"),
			})
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
