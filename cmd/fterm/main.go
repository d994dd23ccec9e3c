// Package main implements fterm, a toggleable floating terminal for the
// local console or over SSH. One persistent shell session lives behind a
// float that can be shown and hidden without losing scrollback.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/EpsilonKu/fterm/internal/app"
	"github.com/EpsilonKu/fterm/internal/config"
	"github.com/EpsilonKu/fterm/internal/server"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	debugMode  bool
	runCommand string
	noWatch    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fterm",
		Short: "Floating terminal",
		Long: `fterm - floating terminal

A single persistent shell session behind a floating window: toggle it in
and out without losing the running process or its scrollback.`,
		Example: `  # Run fterm
  fterm

  # Run a command in the float on startup
  fterm --command "git status"

  # Serve over SSH
  fterm ssh --port 2222

  # Edit configuration
  fterm config edit`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&runCommand, "command", "", "Command to run in the terminal on startup")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable config file watching")

	var sshPort, sshHost, sshKeyPath string

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve fterm over SSH",
		Long: `Serve fterm over SSH

Each connection gets its own floating terminal session. A host key is
generated automatically if not specified.`,
		Example: `  # Start SSH server on default port
  fterm ssh

  # Start on custom port
  fterm ssh --port 2222`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(sshHost, sshPort, sshKeyPath)
		},
	}

	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fterm configuration",
		Long:  `Manage the fterm configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the fterm configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)
	rootCmd.AddCommand(sshCmd, configCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s", version, commit, date)),
	); err != nil {
		os.Exit(1)
	}
}

func runLocal() error {
	if debugMode {
		os.Setenv("FTERM_DEBUG", "1")
	}

	overrides, err := config.LoadUserConfig()
	if err != nil {
		log.Printf("Warning: failed to load config, using defaults: %v", err)
		overrides = config.Overrides{}
	}

	a := app.New(&overrides)
	if runCommand != "" {
		a.RunOnStart = config.Command{runCommand}
	}
	if !noWatch {
		if path, err := config.GetConfigPath(); err == nil {
			a.WatchConfig(path)
		}
	}

	p := tea.NewProgram(a)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSSHServer(sshHost, sshPort, sshKeyPath string) error {
	if debugMode {
		os.Setenv("FTERM_DEBUG", "1")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down SSH server...")
		cancel()
	}()

	if err := server.Start(ctx, &server.Config{
		Host:    sshHost,
		Port:    sshPort,
		KeyPath: sshKeyPath,
	}); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if _, err := config.LoadUserConfig(); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: this will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteDefaultConfig(configPath); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: fterm config edit")
	return nil
}
