// Package config loads WordOrigin settings from defaults, a YAML file and
// WORDORIGIN_ environment variables, and reloads them when the file changes.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full set of settings.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	DataDir    string           `mapstructure:"data_dir" yaml:"data_dir"`
	Dictionary DictionaryConfig `mapstructure:"dictionary" yaml:"dictionary"`
	Scan       ScanConfig       `mapstructure:"scan" yaml:"scan"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Port         int    `mapstructure:"port" yaml:"port"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	Name         string `mapstructure:"name" yaml:"name"`
	Version      string `mapstructure:"version" yaml:"version"`
	Instructions string `mapstructure:"instructions" yaml:"instructions"`
}

// DictionaryConfig selects the replacement dictionary. An empty path uses
// the built-in dictionary.
type DictionaryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ScanConfig bounds scanning work.
type ScanConfig struct {
	MaxDocumentBytes int           `mapstructure:"max_document_bytes" yaml:"max_document_bytes"`
	Workers          int           `mapstructure:"workers" yaml:"workers"`
	Debounce         time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// MarshalYAML writes the debounce as a duration string.
func (s ScanConfig) MarshalYAML() (interface{}, error) {
	return struct {
		MaxDocumentBytes int    `yaml:"max_document_bytes"`
		Workers          int    `yaml:"workers"`
		Debounce         string `yaml:"debounce"`
	}{s.MaxDocumentBytes, s.Workers, s.Debounce.String()}, nil
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Name:         "WordOrigin MCP Server",
			Version:      "1.0.0",
			Instructions: "Finds words of Latin, Greek, or French origin and suggests plain English replacements.",
		},
		DataDir: filepath.Join(".", "data"),
		Scan: ScanConfig{
			MaxDocumentBytes: 1 << 20,
			Workers:          4,
			Debounce:         200 * time.Millisecond,
		},
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Scan.MaxDocumentBytes < 0 {
		errs = append(errs, fmt.Errorf("scan.max_document_bytes must not be negative"))
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers must be at least 1"))
	}
	if c.Scan.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("scan.debounce must be positive"))
	}
	return errors.Join(errs...)
}

// ResolvedBaseURL returns the configured base URL, or one derived from the
// port.
func (c *Config) ResolvedBaseURL() string {
	if c.Server.BaseURL != "" {
		return c.Server.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config. An empty
// cfgFile searches ./wordorigin.yaml and $HOME/.wordorigin/wordorigin.yaml.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.base_url", defaults.Server.BaseURL)
	v.SetDefault("server.name", defaults.Server.Name)
	v.SetDefault("server.version", defaults.Server.Version)
	v.SetDefault("server.instructions", defaults.Server.Instructions)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("dictionary.path", defaults.Dictionary.Path)
	v.SetDefault("scan.max_document_bytes", defaults.Scan.MaxDocumentBytes)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("scan.debounce", defaults.Scan.Debounce)

	// WORDORIGIN_SERVER_PORT overrides server.port.
	v.SetEnvPrefix("WORDORIGIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("wordorigin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.wordorigin")
	}

	// The config file is optional.
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("[Config] Using config file %s", v.ConfigFileUsed())
	}

	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file the config was read from, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading. A change that fails to load or validate
// is logged and the previous config stays active.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cm.reload(e.Name)
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload(source string) {
	cfg, err := cm.load()
	if err != nil {
		log.Printf("[Config] Ignoring change to %s: %v", source, err)
		return
	}
	log.Printf("[Config] Reloaded %s", source)

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# WordOrigin configuration
# Every key can be overridden with a WORDORIGIN_ environment variable,
# e.g. WORDORIGIN_SERVER_PORT=9090 or WORDORIGIN_DICTIONARY_PATH=words.yaml

`)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return os.WriteFile(path, append(header, data...), 0o644)
}
