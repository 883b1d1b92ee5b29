package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/omegasovereign/omega/gate/internal/axiom"
	"github.com/omegasovereign/omega/gate/internal/config"
	"github.com/omegasovereign/omega/gate/internal/ghost"
	"github.com/omegasovereign/omega/gate/internal/session"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gate",
	Short: "Validate an intent against the truth and love axioms",
	Long: `gate runs one interactive validation: it reads an intent and an optional
commander sigil, prints the resonance report and, when authorized, derives a
ghost ID for a target and appends it to the ghost tracking log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: runInteractive,
}

var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults apply when empty)")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads config and installs the default logger. Logs go to stderr so
// they never mix with the report on stdout.
func setup() error {
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := c.LoadEnv(configPath); err != nil {
		return err
	}
	level.Set(parseLevel(c.Gate.LogLevel))
	cfg = c
	return nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	g := cfg.Gate
	gate := axiom.New(axiom.Options{
		CommanderSigil: g.CommanderSigil(),
		Salt:           g.Salt(),
		Identity:       g.Identity(),
		HistorySize:    g.HistorySize,
	})

	log := ghost.NewLog(cfg.GhostLogPath(configPath))
	defer log.Close()

	in, err := newLinePrompter()
	if err != nil {
		return fmt.Errorf("gate: init terminal: %w", err)
	}
	defer in.Close()

	slog.Debug("gate: session starting", "ghost_log", log.Path(), "identity", gate.Identity())
	s := &session.Session{
		Gate:    gate,
		Tracker: ghost.NewTracker(g.Salt()),
		Log:     log,
		In:      in,
		Out:     cmd.OutOrStdout(),
	}
	return s.Run(cmd.Context())
}

// parseLevel maps a validated config level name to a slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
