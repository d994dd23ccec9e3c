// Package server exposes the floating terminal app over SSH.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/ssh"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"

	"github.com/EpsilonKu/fterm/internal/app"
	"github.com/EpsilonKu/fterm/internal/config"
)

// Config holds configuration for the SSH server.
type Config struct {
	Host    string
	Port    string
	KeyPath string // auto-generated under ~/.ssh when empty
}

// Start runs the SSH server until ctx is cancelled. Each connection gets
// its own editor host and session controller.
func Start(ctx context.Context, cfg *Config) error {
	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		hostKeyPath = filepath.Join(homeDir, ".ssh", "fterm_host_key")
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	go func() {
		log.Printf("Starting SSH server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil {
			log.Printf("SSH server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down SSH server...")
	return server.Shutdown(ctx)
}

// teaHandler creates an app instance for each SSH session, sized from the
// requested PTY.
func teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sshSession.Pty()
	if !active {
		return nil, nil
	}

	overrides, err := config.LoadUserConfig()
	if err != nil {
		log.Printf("Warning: failed to load config for SSH session, using defaults: %v", err)
		overrides = config.Overrides{}
	}

	a := app.New(&overrides)
	a.Width = pty.Window.Width
	a.Height = pty.Window.Height
	a.Editor.SetScreenSize(pty.Window.Width, pty.Window.Height)

	return a, nil
}
