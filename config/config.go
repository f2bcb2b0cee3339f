package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the cky tool.
type Config struct {
	Grammar  GrammarConfig  `yaml:"grammar"`
	Tokenize TokenizeConfig `yaml:"tokenize"`
	Parse    ParseConfig    `yaml:"parse"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	Input    InputConfig    `yaml:"input"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GrammarConfig holds grammar loading configuration.
type GrammarConfig struct {
	Start     string `yaml:"start"` // overrides %start and the first rule's LHS
	StrictCNF bool   `yaml:"strict_cnf"`
}

// TokenizeConfig holds sentence tokenization configuration.
type TokenizeConfig struct {
	Lowercase  bool `yaml:"lowercase"`
	SplitPunct bool `yaml:"split_punct"`
}

// ParseConfig holds parsing configuration.
type ParseConfig struct {
	Workers      int           `yaml:"workers"`       // sentences parsed concurrently
	ChartWorkers int           `yaml:"chart_workers"` // goroutines per chart (1 = sequential fill)
	MaxNodes     int           `yaml:"max_nodes"`     // 0 = unlimited
	Timeout      time.Duration `yaml:"timeout"`       // per sentence, 0 = none
}

// OutputConfig holds report output configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "pretty", "bracket", "json"
	Margin int    `yaml:"margin"`
}

// CacheConfig holds result caching configuration.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	Persist bool          `yaml:"persist"` // store results in .cky/parses.db
}

// InputConfig selects sentence files when a directory is given.
type InputConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Grammar: GrammarConfig{
			StrictCNF: true,
		},
		Tokenize: TokenizeConfig{
			Lowercase:  false,
			SplitPunct: true,
		},
		Parse: ParseConfig{
			Workers:      4,
			ChartWorkers: 1,
		},
		Output: OutputConfig{
			Format: "pretty",
			Margin: 70,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1024,
			TTL:     10 * time.Minute,
			Persist: false,
		},
		Input: InputConfig{
			Includes: []string{"**/*.txt"},
			Excludes: []string{"**/.cky/**", "**/.git/**"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for cky.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "cky.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".cky", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the path to the persistent parse store.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".cky", "parses.db")
}

// EnsureCKYDir ensures the .cky directory exists.
func EnsureCKYDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".cky"), 0755)
}
