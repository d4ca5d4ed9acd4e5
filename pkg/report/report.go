// Package report bundles a profile with its insights for export.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"parsifly/pkg/format"
	"parsifly/pkg/insights"
	"parsifly/pkg/profile"
)

// Supported export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatted holds display versions of the count metrics
type Formatted struct {
	Followers string `json:"followers" yaml:"followers"`
	Likes     string `json:"likes" yaml:"likes"`
	Views     string `json:"views" yaml:"views"`
}

// Report is the exported view of one profile lookup
type Report struct {
	Profile     *profile.Profile   `json:"profile" yaml:"profile"`
	Insights    *insights.Insights `json:"insights,omitempty" yaml:"insights,omitempty"`
	Formatted   Formatted          `json:"formatted" yaml:"formatted"`
	GeneratedAt time.Time          `json:"generatedAt" yaml:"generated_at"`
}

// New builds a report for p. withInsights controls whether insights are
// generated.
func New(p *profile.Profile, withInsights bool) *Report {
	r := &Report{
		Profile: p,
		Formatted: Formatted{
			Followers: format.Number(p.Followers),
			Likes:     format.Number(p.Likes),
			Views:     format.Number(p.Views),
		},
		GeneratedAt: time.Now().UTC(),
	}
	if withInsights {
		r.Insights = insights.Summarize(p)
	}
	return r
}

// FormatFromPath infers the export format from a file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Encode writes r to w in the given format
func (r *Report) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile writes r to path, picking the format from the extension. The
// file is replaced atomically.
func (r *Report) WriteFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := r.Encode(tmp, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Load reads a report written by WriteFile
func Load(path string) (*Report, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var r Report
	if format == FormatJSON {
		err = json.Unmarshal(data, &r)
	} else {
		err = yaml.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
