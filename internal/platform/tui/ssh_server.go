package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/storage"
)

// SSHServerConfig configures NewSSHServer.
type SSHServerConfig struct {
	Address string // host:port, ":23234" by default

	// HostKeyPath defaults to ~/.arcade/host_key. Wish creates the key on
	// first start.
	HostKeyPath string

	// Store is shared by every session. DBPath is opened instead when Store
	// is nil, and a failure there only disables scores.
	Store  *storage.Store
	DBPath string

	TickRate    int
	IdleTimeout time.Duration
	Logger      *log.Logger
}

// DefaultSSHServerConfig listens on :23234 at 30 ticks per second.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/scores.db",
		TickRate:    30,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the arcade menu to every SSH client with a terminal.
type SSHServer struct {
	cfg       SSHServerConfig
	srv       *ssh.Server
	store     *storage.Store
	ownsStore bool
	log       *log.Logger
}

// NewSSHServer prepares the host key directory and the Wish middleware
// chain. Nothing listens until Serve.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "roomwalk-ssh"})
	}

	keyPath := cfg.HostKeyPath
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		keyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	s := &SSHServer{cfg: cfg, store: cfg.Store, log: logger}
	if s.store == nil {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("playing without scores", "db", cfg.DBPath, "error", err)
		}
		s.store, s.ownsStore = store, store != nil
	}

	// Middleware runs last to first: log the connection, refuse clients
	// without a PTY, then hand the session to Bubble Tea.
	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newProgram),
			activeterm.Middleware(),
			s.logSessions,
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	s.srv = srv
	return s, nil
}

func (s *SSHServer) newProgram(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.cfg.TickRate,
		Seed:     time.Now().UnixNano(),
	}
	return NewSessionModel(s.store, cfg, sess.User()), []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) logSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		started := time.Now()
		l := s.log.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		l.Info("session started")
		next(sess)
		l.Info("session ended", "duration", time.Since(started).Round(time.Second))
	}
}

// Serve accepts connections until ctx is done, then shuts down with a ten
// second grace period.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.log.Info("listening", "address", s.cfg.Address)

	errc := make(chan error, 1)
	go func() {
		err := s.srv.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		s.closeStore()
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	return s.Shutdown()
}

// Shutdown stops the server and closes a store it opened itself.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.closeStore()
	return s.srv.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.ownsStore && s.store != nil {
		s.store.Close()
		s.ownsStore = false
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
