// Command artofwar starts the Art of War game server.
//
// It has three commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, the
//     WebSocket feed, and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server, starting an internal HTTP API when no
//     external one answers
//  3. "simulate" plays a headless match in-process and prints the outcome
//
// Flags control host/port, config directory, debug logging, session
// expiry, and optional ngrok tunneling for external access during
// development. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/artofwar/api"
	"github.com/wricardo/artofwar/game/config"
	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/layout"
	"github.com/wricardo/artofwar/game/service"
	"github.com/wricardo/artofwar/game/session"
	"github.com/wricardo/artofwar/game/strategy"
	"github.com/wricardo/artofwar/transport/mcp"
	"github.com/wricardo/artofwar/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Art of War Server"
)

const (
	defaultPort       = 8080
	defaultConfigDir  = "configs"
	shutdownTimeout   = 10 * time.Second
	externalProbeWait = 2 * time.Second
)

func main() {
	// A missing .env is normal; anything else is worth a line on stderr
	envErr := godotenv.Load()
	if envErr != nil && !os.IsNotExist(envErr) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flags on the root command are inherited
// by every subcommand; running with no command serves.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "artofwar",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: defaultPort, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.StringFlag{Name: "config-dir", Value: defaultConfigDir, Usage: "directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "remove sessions idle for longer than this"},
			&cli.DurationFlag{Name: "cleanup-interval", Value: time.Hour, Usage: "how often idle sessions are removed"},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			simulateCommand(),
		},
		Action: runServe,
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "run the HTTP server with REST API, WebSocket, and MCP endpoint",
		Action:  runServe,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server backed by an external or internal HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "external API server to use when it answers"},
		},
		Action: runStdioMCP,
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play a headless match and print the outcome",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config ID (default config when empty)"},
			&cli.IntFlag{Name: "seed", Usage: "computer seed (config seed or random when 0)"},
			&cli.IntFlag{Name: "rounds", Value: strategy.DefaultOptions().Rounds, Usage: "army moves to attempt"},
			&cli.IntFlag{Name: "steps", Value: strategy.DefaultOptions().StepsPerRound, Usage: "generations after each army move"},
			&cli.IntFlag{Name: "jitter", Usage: "random spread added to army move scores"},
			&cli.IntFlag{Name: "base-x", Value: -1, Usage: "player base center column (strategy picks when negative)"},
			&cli.IntFlag{Name: "base-y", Value: -1, Usage: "player base center row (strategy picks when negative)"},
			&cli.BoolFlag{Name: "board", Usage: "print the final board"},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON"},
			&cli.StringFlag{Name: "layout-out", Usage: "write the final board as a layout file"},
		},
		Action: runSimulate,
	}
}

// newLogger returns a development logger when debug is set and a
// production logger otherwise. Both write to stderr.
func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// runServe starts the HTTP server, the WebSocket hub, the session cleanup
// loop and, when enabled, an ngrok tunnel. All of them stop when ctx is
// cancelled.
func runServe(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version))

	gameService, sessions, err := initializeServices(cmd.String("config-dir"), logger)
	if err != nil {
		return errors.Wrap(err, "failed to initialize services")
	}

	hub := websocket.NewHub(logger.Named("ws"))
	apiServer := api.NewServer(gameService, hub, logger.Named("api"))

	addr := net.JoinHostPort(cmd.String("host"), strconv.Itoa(int(cmd.Int("port"))))
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		sessionCleanupRoutine(gctx, sessions, cmd.Duration("cleanup-interval"), cmd.Duration("session-ttl"), logger)
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("rest", "http://"+addr+"/api"),
			zap.String("websocket", "ws://"+addr+"/ws?session=<session_id>"),
			zap.String("mcp", "http://"+addr+"/mcp"))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "HTTP server failed")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		return nil
	})

	if cmd.Bool("ngrok") {
		g.Go(func() error {
			runNgrok(gctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter, logger)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// newRouter mounts the API server at the root and the MCP JSON-RPC
// endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
// Failures are logged; the local server keeps running without the tunnel.
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler, logger *zap.Logger) {
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", zap.String("domain", domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	ngrokServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		ngrokServer.Close()
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("rest", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws?session=<session_id>"),
		zap.String("mcp", ngrokURL+"/mcp"))

	if err := ngrokServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// initializeServices wires the config and session managers into the game
// service
func initializeServices(configDir string, logger *zap.Logger) (service.GameService, *session.Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create config manager")
	}

	sessionManager := session.NewManager(logger.Named("session"))
	gameService := service.NewGameService(sessionManager, configManager, logger.Named("service"))

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge, until ctx is cancelled
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

// runStdioMCP runs an MCP stdio server. It reuses an external API when one
// answers at --api-url; otherwise it starts an internal HTTP API on a
// random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))
	defer logger.Sync()

	baseURL := cmd.String("api-url")
	if !apiAvailable(baseURL) {
		logger.Info("no external API server found, starting internal HTTP server", zap.String("probed", baseURL))

		gameService, _, err := initializeServices(cmd.String("config-dir"), logger)
		if err != nil {
			return errors.Wrap(err, "failed to initialize services")
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return errors.Wrap(err, "failed to get available port")
		}

		hub := websocket.NewHub(logger.Named("ws"))
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub, logger.Named("api"))}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return errors.Wrap(err, "MCP stdio server error")
	}
	return nil
}

// apiAvailable reports whether an API server answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: externalProbeWait}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// fixedBase overrides a strategy's base choice
type fixedBase struct {
	strategy.Strategy
	base engine.Position
}

func (f fixedBase) BaseMove(*engine.GameState) engine.Position { return f.base }

// runSimulate plays one match in-process with the systematic strategy
func runSimulate(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))
	defer logger.Sync()

	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return errors.Wrap(err, "failed to create config manager")
	}

	cfg := configManager.GetDefault()
	if name := cmd.String("config"); name != "" {
		if cfg, err = configManager.LoadConfig(name); err != nil {
			return err
		}
	}

	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = engine.NewSeed()
	}

	game, err := engine.NewGame(cfg, engine.NewRandom(seed))
	if err != nil {
		return err
	}

	systematic := strategy.NewSystematic(engine.NewRandom(seed+1), logger)
	systematic.Jitter = int(cmd.Int("jitter"))

	var s strategy.Strategy = systematic
	if x, y := int(cmd.Int("base-x")), int(cmd.Int("base-y")); x >= 0 && y >= 0 {
		s = fixedBase{Strategy: systematic, base: engine.Position{X: x, Y: y}}
	}

	report, err := strategy.Run(ctx, game, s, strategy.Options{
		Rounds:        int(cmd.Int("rounds")),
		StepsPerRound: int(cmd.Int("steps")),
	}, logger)
	if err != nil {
		return err
	}

	if path := cmd.String("layout-out"); path != "" {
		if err := writeLayout(path, game.Grid()); err != nil {
			return err
		}
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Config string `json:"config"`
			Seed   int64  `json:"seed"`
			*strategy.Report
		}{cfg.Name, seed, report})
	}

	fmt.Fprint(out, formatReport(cfg.Name, seed, report))
	if cmd.Bool("board") {
		fmt.Fprintf(out, "\n%s", game.Grid())
	}
	return nil
}

func formatReport(configName string, seed int64, report *strategy.Report) string {
	result := "undecided"
	if o := report.Outcome; o != nil {
		switch {
		case o.Reason == engine.ReasonGenerationLimit:
			result = "draw (generation limit)"
		case o.Winner == engine.Player:
			result = "player wins"
		default:
			result = "computer wins"
		}
	}
	return fmt.Sprintf("Config: %s\nSeed: %d\nBases: player %s, computer %s\nRounds: %d, army moves: %d\nGeneration: %d\nResult: %s\n",
		configName, seed, report.Base, report.Computer, report.Rounds, report.ArmyMoves, report.Generation, result)
}

func writeLayout(path string, grid *engine.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create layout file")
	}
	defer f.Close()

	if err := layout.Format(f, layout.Snapshot(grid)); err != nil {
		return errors.Wrap(err, "failed to write layout")
	}
	return f.Close()
}
