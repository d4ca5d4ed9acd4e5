package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"parsifly/internal/batch"
	"parsifly/pkg/config"
	"parsifly/pkg/profile"
	"parsifly/pkg/report"
	"parsifly/pkg/ui"
)

// isolate points every external dependency of the CLI at test doubles and
// returns captured stdout
func isolate(t *testing.T) *bytes.Buffer {
	t.Helper()

	keyring.MockInit()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("PARSIFLY_PASSPHRASE", "test")
	for _, p := range profile.Platforms() {
		t.Setenv("PARSIFLY_"+strings.ToUpper(p.Lower())+"_API_KEY", "")
	}
	t.Setenv("PARSIFLY_CACHE_BACKEND", "memory")
	t.Setenv("PARSIFLY_LOG_LEVEL", "disabled")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"jane","avatar_url":"https://example.com/a.png","followers":100,"public_repos":7}`))
	}))
	t.Cleanup(server.Close)
	t.Setenv("PARSIFLY_ALTERNATIVE_URL", server.URL)

	// run from an empty directory so no parsifly.yaml or .env is picked up
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	ui.SetOutput(&stdout, &stderr)
	t.Cleanup(func() { ui.SetOutput(os.Stdout, os.Stderr) })

	configFile, logLevel, logFormat, cacheBackend, cacheDir = "", "", "", "", ""
	quiet = false
	timeRange, withInsights, outputFile = string(profile.Range30d), false, ""
	batchWorkers, batchRange = 3, string(profile.Range30d)
	return &stdout
}

func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("90D")
	require.NoError(t, err)
	assert.Equal(t, profile.Range90d, r)

	_, err = parseRange("1y")
	assert.Error(t, err)
}

func TestFlagOverrides(t *testing.T) {
	isolate(t)
	assert.Empty(t, flagOverrides())

	logLevel, cacheBackend = "debug", "file"
	flags := flagOverrides()
	assert.Equal(t, "debug", flags["log-level"])
	assert.Equal(t, "file", flags["cache-backend"])
	assert.NotContains(t, flags, "cache-dir")
}

func TestMaskedConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Platforms.SetAPIKey(profile.TikTok, "abcdefghijklmnop")
	cfg.Cache.RedisPassword = "hunter2"

	display := maskedConfig(cfg)
	assert.Equal(t, "abcd...mnop", display.Platforms.TikTok.APIKey)
	assert.Equal(t, "********", display.Cache.RedisPassword)
	assert.Empty(t, display.Platforms.YouTube.APIKey)
	// the original is untouched
	assert.Equal(t, "abcdefghijklmnop", cfg.Platforms.TikTok.APIKey)
}

func TestBatchTable(t *testing.T) {
	out := batchTable([]batch.Result{
		{
			Job:      batch.Job{Username: "jane"},
			Profile:  &profile.Profile{Username: "jane", Followers: 1_500_000, FollowersGrowth: 2, Engagement: 4.5, Source: profile.SourceCache},
			Duration: 3 * time.Millisecond,
		},
		{Job: batch.Job{Username: "john"}, Error: errors.New("exhausted")},
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "FOLLOWERS")
	assert.Contains(t, lines[1], "1.5M")
	assert.Contains(t, lines[1], "+2.0%")
	assert.Contains(t, lines[1], "cache")
	assert.Contains(t, lines[2], "error: exhausted")
}

func TestReadLine(t *testing.T) {
	line, err := readLine(strings.NewReader("  secret-key \n"))
	require.NoError(t, err)
	assert.Equal(t, "secret-key", line)

	line, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", line)
}

func TestConfigInitAndValidate(t *testing.T) {
	stdout := isolate(t)
	path := filepath.Join(t.TempDir(), "conf", "parsifly.yaml")

	require.NoError(t, execute("config", "init", "--config", path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Parsifly configuration")
	assert.Contains(t, string(content), "requests_per_minute: 30")

	assert.Error(t, execute("config", "init", "--config", path))

	require.NoError(t, execute("config", "validate", "--config", path))
	assert.Contains(t, stdout.String(), "Configuration is valid")
}

func TestProfileCommandWritesReport(t *testing.T) {
	stdout := isolate(t)
	out := filepath.Join(t.TempDir(), "jane.json")

	require.NoError(t, execute("profile", "tiktok", "jane", "--range", "7d", "--insights", "--output", out, "--quiet"))
	assert.Contains(t, stdout.String(), "@jane on TikTok (7d)")
	assert.Contains(t, stdout.String(), "Insights")

	rep, err := report.Load(out)
	require.NoError(t, err)
	assert.Equal(t, profile.SourceAlternative, rep.Profile.Source)
	assert.Equal(t, int64(7500), rep.Profile.Followers)
	assert.Equal(t, profile.Range7d, rep.Profile.TimeRange)
	require.NotNil(t, rep.Insights)
}

func TestProfileCommandRejectsUnknownPlatform(t *testing.T) {
	isolate(t)
	err := execute("profile", "myspace", "jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "myspace")
}

func TestBatchCommand(t *testing.T) {
	stdout := isolate(t)

	require.NoError(t, execute("batch", "youtube", "jane", "john", "--workers", "2"))
	assert.Contains(t, stdout.String(), "2 profiles fetched, 0 failed")
	assert.Contains(t, stdout.String(), "jane")
	assert.Contains(t, stdout.String(), "john")
}

func TestAuthCommands(t *testing.T) {
	stdout := isolate(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("yt-key-1234567890\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	stdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = stdin })

	require.NoError(t, execute("auth", "set", "youtube", "--stdin"))
	assert.Contains(t, stdout.String(), "API key for YouTube stored")

	stdout.Reset()
	require.NoError(t, execute("auth", "list"))
	assert.Contains(t, stdout.String(), "YouTube")
	assert.Contains(t, stdout.String(), "yt-k...7890")
	assert.NotContains(t, stdout.String(), "yt-key-1234567890")

	require.NoError(t, execute("auth", "remove", "youtube"))
	assert.Error(t, execute("auth", "remove", "youtube"))
}

func TestLogoShownForDataCommandsOnly(t *testing.T) {
	stdout := isolate(t)

	require.NoError(t, execute("profile", "youtube", "jane"))
	assert.Contains(t, stdout.String(), "SOCIAL PROFILE METRICS DASHBOARD")

	stdout.Reset()
	require.NoError(t, execute("config", "validate"))
	assert.NotContains(t, stdout.String(), "SOCIAL PROFILE METRICS DASHBOARD")

	stdout.Reset()
	require.NoError(t, execute("profile", "youtube", "jane", "--quiet"))
	assert.NotContains(t, stdout.String(), "SOCIAL PROFILE METRICS DASHBOARD")
}
