package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomwalk/internal/platform/tui"
	"github.com/vovakirdan/roomwalk/internal/spectate"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

var (
	flagSSHAddr      string
	flagHostKey      string
	flagIdleTimeout  int
	flagSpectateAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets their own session with a game picker menu.
Scores are stored per-server (all users share the same leaderboard).

With --spectate, game events of every session are streamed as JSON over a
websocket at ws://<addr>/ws (filter with ?game=pyramid). GET /healthz
reports the number of watchers.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  arcade serve                           # Listen on :23234 with auto-generated key
  arcade serve --ssh :2222               # Listen on port 2222
  arcade serve --spectate :8080          # Also stream events to watchers
  arcade serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagSpectateAddr, "spectate", "", "Spectator feed address (host:port), disabled when empty")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "roomwalk",
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := []telemetry.Sink{telemetry.NewLogSink(logger)}
	var feed *spectate.Server
	if flagSpectateAddr != "" {
		hub := spectate.NewHub(logger)
		feed = spectate.NewServer(flagSpectateAddr, hub, logger)
		sinks = append(sinks, hub)
		go func() {
			if err := feed.ListenAndServe(); err != nil {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := feed.Shutdown(sctx); err != nil {
				logger.Warn("spectator feed shutdown", "error", err)
			}
		}()
	}

	env, err := startEnv(sinks...)
	if err != nil {
		return err
	}
	defer env.Close()
	configureGames("", "")

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		Store:       env.store,
		TickRate:    flagFPS,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Logger:      logger.WithPrefix("ssh"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Connect with: ssh localhost -p %s (Ctrl+C stops the server)\n", port(flagSSHAddr))
	return server.Serve(ctx)
}

// port returns the port part of a host:port address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
