// Command regdesk serves and administers the scheme registration desks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"regdesk/internal/app"
	"regdesk/internal/platform/config"
	"regdesk/internal/platform/logger"
)

// Set with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const appName = "regdesk"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFiles    []string
	logLevel    string
	logFormat   string
	schemesFile string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Scheme registration desk",
		Long: `regdesk runs the registration desks of the state youth and sports schemes.

Each scheme (adventure training, vocational training, youth volunteering and
Khel Mahakumbh) gets its own form, drafts, numbering and admin table. Storage,
event delivery and timing are configured through environment variables; a
.env file is loaded when present.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format override (text, json)")
	pf.StringVar(&flags.schemesFile, "schemes", "", "scheme overrides file (YAML)")

	cmd.AddCommand(
		serveCmd(&flags),
		schemesCmd(&flags),
		exportCmd(&flags),
		purgeCmd(&flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

// load reads the configuration and builds the logger, applying flag
// overrides on top of the environment.
func (f *globalFlags) load() (config.Server, *slog.Logger, error) {
	if err := config.LoadDotEnv(f.envFiles...); err != nil {
		return config.Server{}, nil, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Server{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.schemesFile != "" {
		cfg.SchemesFile = f.schemesFile
	}
	return cfg, logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}

// openApp builds the app for one-shot admin commands, which log to stderr so
// stdout stays clean for output.
func (f *globalFlags) openApp(ctx context.Context) (*app.App, error) {
	cfg, log, err := f.load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}
