// Package logger wraps zerolog behind a small Logger interface.
//
// Basic usage:
//
//	cfg := &config.LoggingConfig{Level: "info", Format: "console"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//	logger.WithField("platform", "TikTok").Info("Fetching profile")
//
// Components take a Logger in their constructors; tests pass NewTestLogger
// and assert on the captured messages, or NewNopLogger to discard them.
package logger
