package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/config"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/logging"
)

// Version is injected during build.
var Version = "dev"

// app holds state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	otel       bool

	// Populated before any subcommand runs.
	settings config.Config
	logger   *slog.Logger

	// Set when --otel is on.
	telemetry *telemetry
}

func newRootCmd() *cobra.Command {
	a := &app{settings: config.New(nil)}

	root := &cobra.Command{
		Use:   "strtmpl",
		Short: "Substitute $var, ${var?default} and %var% references in text",
		Long: `strtmpl expands variable references in text.

Variables come from --set assignments, YAML/JSON files, a SQLite variable
store and the process environment. Defaults for any flag can be kept in a
YAML or JSON file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.telemetry == nil {
				return nil
			}
			return a.telemetry.shutdown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML or JSON file with default settings")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")
	flags.BoolVar(&a.otel, "otel", false, "log OpenTelemetry spans and metrics at info level")

	root.AddCommand(
		newExpandCmd(a),
		newRefsCmd(a),
		newVarsCmd(a),
		newIniCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the settings file, builds the logger and installs telemetry.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.FromFile(a.configPath)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		a.settings = cfg
	}

	level := a.stringSetting(cmd, "log-level", "log_level", a.logLevel)
	format := a.stringSetting(cmd, "log-format", "log_format", a.logFormat)
	a.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Format: logging.ParseFormat(format),
		Output: cmd.ErrOrStderr(),
	})
	a.logger.Debug("settings loaded",
		slog.String("config", a.configPath),
		slog.Int("keys", len(a.settings.Keys())),
	)
	if a.boolSetting(cmd, "otel", "otel", a.otel) {
		a.telemetry = installTelemetry(a.logger)
	}
	return nil
}

// stringSetting returns the flag value when the flag was given on the
// command line, else the settings file value, else the flag default.
func (a *app) stringSetting(cmd *cobra.Command, flag, key, value string) string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return a.settings.String(key, value)
}

func (a *app) boolSetting(cmd *cobra.Command, flag, key string, value bool) bool {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return a.settings.Bool(key, value)
}

func (a *app) intSetting(cmd *cobra.Command, flag, key string, value int) int {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return a.settings.Int(key, value)
}

func (a *app) sliceSetting(cmd *cobra.Command, flag, key string, value []string) []string {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return a.settings.StringSlice(key, value)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show strtmpl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "strtmpl %s\n", Version)
			return err
		},
	}
}
