package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"parsifly/pkg/auth"
	"parsifly/pkg/config"
	"parsifly/pkg/profile"
	"parsifly/pkg/storage"
	"parsifly/pkg/ui"
)

const configHeader = `# Parsifly configuration
#
# Every value can be overridden with PARSIFLY_* environment variables, for
# example PARSIFLY_TIKTOK_API_KEY, PARSIFLY_CACHE_BACKEND or
# PARSIFLY_LOG_LEVEL. Prefer 'parsifly auth set' over storing API keys here.

`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Parsifly configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (PARSIFLY_*) and .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with default values",
	Long: `Create a configuration file holding every option at its default.

The file is written to ./parsifly.yaml unless --config names another path.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with API keys masked",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and check the cache backend",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = "parsifly.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s (remove it first to regenerate)", path)
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	ui.PrintInfo("Next", "edit it, then run 'parsifly config validate'")
	return nil
}

// maskedConfig returns a copy of cfg safe to print
func maskedConfig(cfg *config.Config) config.Config {
	display := *cfg
	for _, p := range profile.Platforms() {
		if display.Platforms.HasAPIKey(p) {
			pc, _ := display.Platforms.For(p)
			display.Platforms.SetAPIKey(p, auth.Mask(pc.APIKey))
		}
	}
	if display.Cache.RedisPassword != "" {
		display.Cache.RedisPassword = auth.Mask(display.Cache.RedisPassword)
	}
	return display
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, flagOverrides())
	if err != nil {
		return err
	}

	display := maskedConfig(cfg)
	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	ui.PrintData("%s", data)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, flagOverrides())
	if err != nil {
		return err
	}

	var warnings []string
	for _, p := range profile.Platforms() {
		if !cfg.Platforms.HasAPIKey(p) {
			warnings = append(warnings, fmt.Sprintf("no %s API key in configuration; lookups start from the cache", p))
		}
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
	}

	kv, err := storage.Open(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache backend unusable: %w", err)
	}
	defer kv.Close()
	if err := checkBackend(commandContext(cmd), kv); err != nil {
		return fmt.Errorf("cache backend unreachable: %w", err)
	}

	for _, w := range warnings {
		ui.PrintWarning(w)
	}
	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Cache", fmt.Sprintf("%s, ttl %s", cfg.Cache.Backend, cfg.Cache.TTL))
	ui.PrintInfo("Rate limit", fmt.Sprintf("%d requests/minute", cfg.RateLimit.RequestsPerMinute))
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}

// checkBackend pings backends that support it and probes the rest with a read
func checkBackend(ctx context.Context, kv storage.KV) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pinger, ok := kv.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	_, _, err := kv.GetItem(ctx, "parsifly_healthcheck")
	return err
}
