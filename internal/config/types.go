// Package config holds the figure configuration: which .dat files to load,
// how to label them and how the two-panel figure looks.
//
// Values are layered with koanf. Precedence (highest to lowest):
// flags > EPPLOT_ env vars > ep_plotter.yaml > defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Style selects how series are drawn.
const (
	StyleLine    = "line"
	StyleScatter = "scatter"
)

// SizePlaceholder is replaced by the chain size in input patterns.
const SizePlaceholder = "{}"

// Default configuration values.
const (
	DefaultInputPatternA = "EP1_N{}.dat"
	DefaultInputPatternB = "EP2_N{}.dat"
	DefaultOutput        = "EP_summary.pdf"
	DefaultStyle         = StyleLine
	DefaultXLabel        = "M / 2N"
	DefaultYLabel        = "EPs / 2N"
	DefaultLabelFormat   = "N = %d"
	DefaultLabelDivisor  = 2
	DefaultWidth         = 10.0
	DefaultHeight        = 6.0
	DefaultLogLevel      = "info"
)

var (
	// DefaultSizes are the chain sizes plotted when none are configured.
	DefaultSizes = []int{2, 4, 6, 8, 10, 12, 14, 16}

	// DefaultPalette starts with the theme blue and red.
	DefaultPalette = []string{
		"#21409a",
		"firebrick",
		"#a9bcd0",
		"goldenrod",
		"mistyrose",
		"#D8DBE2",
		"slategray",
	}

	// DefaultMarkers gives each of the default sizes its own marker.
	DefaultMarkers = []string{"o", "s", "^", "D", "v", "P", "*", "X"}

	DefaultPanelTitles = []string{"Case 1", "Case 2"}
	DefaultPanelTags   = []string{"a", "b"}
)

// Config holds all figure options.
type Config struct {
	Sizes         []int    `koanf:"sizes" yaml:"sizes"`
	DataDir       string   `koanf:"data_dir" yaml:"data_dir"`
	InputPatternA string   `koanf:"input_pattern_a" yaml:"input_pattern_a"`
	InputPatternB string   `koanf:"input_pattern_b" yaml:"input_pattern_b"`
	Output        string   `koanf:"output" yaml:"output"`
	Palette       []string `koanf:"palette" yaml:"palette"`
	Markers       []string `koanf:"markers" yaml:"markers"`
	Style         string   `koanf:"style" yaml:"style"`
	PanelTitles   []string `koanf:"panel_titles" yaml:"panel_titles"`
	PanelTags     []string `koanf:"panel_tags" yaml:"panel_tags"`
	XLabel        string   `koanf:"x_label" yaml:"x_label"`
	YLabel        string   `koanf:"y_label" yaml:"y_label"`
	LabelFormat   string   `koanf:"label_format" yaml:"label_format"`
	LabelDivisor  int      `koanf:"label_divisor" yaml:"label_divisor"`
	Width         float64  `koanf:"width" yaml:"width"`
	Height        float64  `koanf:"height" yaml:"height"`
	StrictShape   bool     `koanf:"strict_shape" yaml:"strict_shape"`
	SkipMissing   bool     `koanf:"skip_missing" yaml:"skip_missing"`
	LogLevel      string   `koanf:"log_level" yaml:"log_level"`
	SeqURL        string   `koanf:"seq_url" yaml:"seq_url,omitempty"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Sizes:         append([]int(nil), DefaultSizes...),
		InputPatternA: DefaultInputPatternA,
		InputPatternB: DefaultInputPatternB,
		Output:        DefaultOutput,
		Palette:       append([]string(nil), DefaultPalette...),
		Markers:       append([]string(nil), DefaultMarkers...),
		Style:         DefaultStyle,
		PanelTitles:   append([]string(nil), DefaultPanelTitles...),
		PanelTags:     append([]string(nil), DefaultPanelTags...),
		XLabel:        DefaultXLabel,
		YLabel:        DefaultYLabel,
		LabelFormat:   DefaultLabelFormat,
		LabelDivisor:  DefaultLabelDivisor,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		LogLevel:      DefaultLogLevel,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("sizes: at least one chain size is required")
	}
	for _, n := range c.Sizes {
		if n <= 0 {
			return fmt.Errorf("sizes: chain size must be positive, got %d", n)
		}
	}
	for i, pattern := range c.Patterns() {
		if !strings.Contains(pattern, SizePlaceholder) {
			return fmt.Errorf("input_pattern_%c: pattern %q has no %s placeholder", 'a'+i, pattern, SizePlaceholder)
		}
	}
	if c.Output == "" {
		return fmt.Errorf("output: a file name is required")
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette: at least one colour is required")
	}
	if len(c.Markers) == 0 {
		return fmt.Errorf("markers: at least one marker is required")
	}
	if c.Style != StyleLine && c.Style != StyleScatter {
		return fmt.Errorf("style: unknown style %q (want %s or %s)", c.Style, StyleLine, StyleScatter)
	}
	if len(c.PanelTitles) != 2 {
		return fmt.Errorf("panel_titles: expected 2 titles, got %d", len(c.PanelTitles))
	}
	if len(c.PanelTags) != 2 {
		return fmt.Errorf("panel_tags: expected 2 tags, got %d", len(c.PanelTags))
	}
	if c.LabelDivisor <= 0 {
		return fmt.Errorf("label_divisor: must be positive, got %d", c.LabelDivisor)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width/height: must be positive, got %gx%g", c.Width, c.Height)
	}
	return nil
}

// ResourceName expands pattern for chain size n and places it under DataDir.
func (c *Config) ResourceName(pattern string, n int) string {
	name := strings.ReplaceAll(pattern, SizePlaceholder, strconv.Itoa(n))
	if c.DataDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// SeriesLabel is the legend label for chain size n, e.g. "N = 4" for n = 8.
func (c *Config) SeriesLabel(n int) string {
	divisor := c.LabelDivisor
	if divisor <= 0 {
		divisor = 1
	}
	return fmt.Sprintf(c.LabelFormat, n/divisor)
}

// Patterns returns the input patterns in panel order.
func (c *Config) Patterns() []string {
	return []string{c.InputPatternA, c.InputPatternB}
}
