package config

// Config is the complete ucikit configuration.
type Config struct {
	Engine  EngineConfig   `yaml:"engine" toml:"engine"`
	Log     LogConfig      `yaml:"log" toml:"log"`
	Worker  WorkerConfig   `yaml:"worker" toml:"worker"`
	Info    InfoConfig     `yaml:"info" toml:"info"`
	Options map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`

	// SourcePath is the file the config was loaded from; empty for defaults.
	SourcePath string `yaml:"-" toml:"-"`
	// Digest is the BLAKE3 hash of the source file.
	Digest string `yaml:"-" toml:"-"`
}

// EngineConfig is reported by the "uci" command.
type EngineConfig struct {
	Name   string `yaml:"name" toml:"name"`
	Author string `yaml:"author" toml:"author"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text or json
}

// WorkerConfig controls the search worker.
type WorkerConfig struct {
	// AwakeOnStart starts the worker goroutine before the first "go".
	AwakeOnStart bool `yaml:"awake_on_start" toml:"awake_on_start"`
}

// InfoConfig controls progress reporting.
type InfoConfig struct {
	// MaxPerSecond caps search info lines; 0 disables the cap.
	MaxPerSecond float64 `yaml:"max_per_second" toml:"max_per_second"`
}

// Defaults returns a usable config without any file.
func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:   "ucikit",
			Author: "ucikit authors",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Worker: WorkerConfig{
			AwakeOnStart: true,
		},
		Options: make(map[string]any),
	}
}
