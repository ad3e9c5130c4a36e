package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "EPPLOT_"

// DefaultFileNames are probed in the working directory when no config file is given.
var DefaultFileNames = []string{"ep_plotter.yaml", "ep_plotter.yml"}

// Loaded is a Config plus the file it came from, if any.
type Loaded struct {
	*Config
	File string
}

// findConfigFile finds the config file to use.
// Priority: explicit path > ep_plotter.yaml > ep_plotter.yml
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, name := range DefaultFileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"sizes":           d.Sizes,
		"data_dir":        d.DataDir,
		"input_pattern_a": d.InputPatternA,
		"input_pattern_b": d.InputPatternB,
		"output":          d.Output,
		"palette":         d.Palette,
		"markers":         d.Markers,
		"style":           d.Style,
		"panel_titles":    d.PanelTitles,
		"panel_tags":      d.PanelTags,
		"x_label":         d.XLabel,
		"y_label":         d.YLabel,
		"label_format":    d.LabelFormat,
		"label_divisor":   d.LabelDivisor,
		"width":           d.Width,
		"height":          d.Height,
		"strict_shape":    d.StrictShape,
		"skip_missing":    d.SkipMissing,
		"log_level":       d.LogLevel,
		"seq_url":         d.SeqURL,
	}
}

// Load builds the configuration from defaults, the config file, EPPLOT_
// environment variables and explicitly set flags, then validates it.
// flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: EPPLOT_DATA_DIR -> data_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set; kebab-case maps to snake_case keys
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// data_dir from the config file is relative to that file
	if used != "" && cfg.DataDir != "" && !filepath.IsAbs(cfg.DataDir) && !dataDirOverridden(flags) {
		cfg.DataDir = filepath.Join(filepath.Dir(used), cfg.DataDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Loaded{Config: &cfg, File: used}, nil
}

// dataDirOverridden reports whether data_dir came from the environment or a flag.
func dataDirOverridden(flags *pflag.FlagSet) bool {
	if _, ok := os.LookupEnv(EnvPrefix + "DATA_DIR"); ok {
		return true
	}
	return flags != nil && flags.Changed("data-dir")
}

// WriteDefault writes the default configuration as YAML to path.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}

	b, err := yamlv3.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
