package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvOverrides are the environment variables ucikit reads.
type EnvOverrides struct {
	Config     string `env:"UCIKIT_CONFIG"`
	LogLevel   string `env:"UCIKIT_LOG_LEVEL"`
	LogFormat  string `env:"UCIKIT_LOG_FORMAT"`
	EngineName string `env:"UCIKIT_ENGINE_NAME"`
}

// ParseEnv loads overrides from the process environment.
func ParseEnv() (EnvOverrides, error) {
	var e EnvOverrides
	if err := env.Parse(&e); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Resolve loads the config named by path, falling back to $UCIKIT_CONFIG and
// then to Defaults, and applies environment overrides on top.
func Resolve(path string) (*Config, error) {
	e, err := ParseEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = e.Config
	}

	cfg := Defaults()
	if path != "" {
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.Log.Format = e.LogFormat
	}
	if e.EngineName != "" {
		cfg.Engine.Name = e.EngineName
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over Defaults.
// Unknown keys are rejected.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	cfg := Defaults()
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", absPath, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", absPath, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("failed to parse %s: unknown keys %s", absPath, strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}

	if cfg.Options == nil {
		cfg.Options = make(map[string]any)
	}
	cfg.SourcePath = absPath
	cfg.Digest = Digest(data)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// OptionOverrides renders the options table as setoption value text.
func (c *Config) OptionOverrides() map[string]string {
	out := make(map[string]string, len(c.Options))
	for name, v := range c.Options {
		out[name] = fmt.Sprint(v)
	}
	return out
}

// OptionNames lists the configured option overrides in sorted order.
func (c *Config) OptionNames() []string {
	names := make([]string, 0, len(c.Options))
	for n := range c.Options {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error (got %q)", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", cfg.Log.Format)
	}

	if cfg.Info.MaxPerSecond < 0 {
		return fmt.Errorf("info.max_per_second must not be negative")
	}

	for name, v := range cfg.Options {
		switch v.(type) {
		case string, bool, int, int64, uint64, float64:
		default:
			return fmt.Errorf("options.%s: value must be a scalar (got %T)", name, v)
		}
	}

	return nil
}
