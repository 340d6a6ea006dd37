package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/pose-coach/internal/config"
	"github.com/kozaktomas/pose-coach/internal/database"
	"github.com/kozaktomas/pose-coach/internal/database/mock"
	"github.com/kozaktomas/pose-coach/internal/database/postgres"
	"github.com/kozaktomas/pose-coach/internal/detector"
	"github.com/kozaktomas/pose-coach/internal/feed"
	"github.com/kozaktomas/pose-coach/internal/pose"
	"github.com/kozaktomas/pose-coach/internal/session"
	"github.com/kozaktomas/pose-coach/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Pose Coach web server.

When CAMERA_URL or CAMERA_DIR is set, frames are pulled continuously, sent to
the landmark service and graded against the active pose. Without a camera the
session can still be driven through POST /api/v1/session/frame.

The leaderboard is stored in PostgreSQL when DATABASE_URL is set and kept in
memory otherwise.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 3000, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Bool("auto-rounds", false, "Advance the routine on the server (overrides AUTO_ROUNDS)")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

// openLeaderboard connects to PostgreSQL when configured and falls back to memory.
func openLeaderboard(ctx context.Context, cfg *config.Config) (database.LeaderboardWriter, func(), error) {
	if cfg.Database.URL == "" {
		fmt.Println("DATABASE_URL not set, leaderboard is kept in memory")
		return mock.NewMockLeaderboard(), func() {}, nil
	}

	fmt.Println("Connecting to PostgreSQL database...")
	pool, err := postgres.Initialize(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	board, err := database.GetLeaderboard(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	fmt.Println("Leaderboard persistence enabled (PostgreSQL)")
	return board, func() { pool.Close() }, nil
}

// newFrameSource picks the camera snapshot URL or, failing that, the replay directory.
func newFrameSource(cfg *config.CameraConfig) (feed.Source, error) {
	if cfg.URL != "" {
		return feed.NewSnapshotSource(cfg.URL), nil
	}
	return feed.NewDirSource(cfg.Dir)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if mustGetBool(cmd, "auto-rounds") {
		cfg.Session.AutoRounds = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	board, closeBoard, err := openLeaderboard(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBoard()

	state := session.New(nil).WithIndex(pose.NewIndex())

	var loop *feed.Loop
	if cfg.Camera.Enabled() {
		source, err := newFrameSource(&cfg.Camera)
		if err != nil {
			return fmt.Errorf("failed to open camera: %w", err)
		}
		client := detector.NewClient(cfg.Landmark.URL, cfg.Camera.MaxFrameSize)
		loop = feed.NewLoop(source, client, state, feed.Options{
			Interval:      cfg.Camera.FrameInterval,
			MinVisibility: cfg.Landmark.MinVisibility,
			Mirror:        cfg.Landmark.Mirror,
		})
		go loop.Run(ctx)
	} else {
		fmt.Println("No camera configured (CAMERA_URL or CAMERA_DIR), frames must be posted to the API")
	}

	if cfg.Session.AutoRounds {
		fmt.Printf("Advancing the routine every %s\n", cfg.Session.RoundInterval)
		go state.RunRounds(ctx, cfg.Session.RoundInterval)
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, state, board, loop)

	go func() {
		<-ctx.Done()
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Pose Coach on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
