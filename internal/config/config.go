package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
	"labbatch/internal/eventbus"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

// Store backends
const (
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	Version    int        `toml:"version"`
	Kind       string     `toml:"kind"`
	ItemType   string     `toml:"item_type,omitempty"` // display noun, defaults to the kind's plural
	Store      string     `toml:"store"`
	DBPath     string     `toml:"db_path"`
	ExportDir  string     `toml:"export_dir"`
	SeedPath   string     `toml:"seed_path,omitempty"`
	LogFile    string     `toml:"log_file"`
	Categories []string   `toml:"categories"`
	Operations []string   `toml:"operations"` // catalog subset, in menu order
	UISettings UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowArchived bool `toml:"show_archived"`
	WatchSeed    bool `toml:"watch_seed"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultDir returns the directory labbatch keeps its files in
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "labbatch")
}

// NewConfigService creates a config service for the default config file
func NewConfigService() ConfigService {
	return &configService{filePath: filepath.Join(DefaultDir(), "config.toml")}
}

// NewConfigServiceWithBus creates a config service for path with event bus
// support. An empty path means the default config file.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigService().(*configService)
	if path != "" {
		cs.filePath = path
	}
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields DefaultConfig.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := DefaultDir()
	ops := make([]string, 0, batch.DefaultCatalog().Len())
	for _, d := range batch.DefaultCatalog().Descriptors() {
		ops = append(ops, string(d.ID))
	}
	return &Config{
		Version:    1,
		Kind:       string(domain.KindDevice),
		Store:      StoreBolt,
		DBPath:     filepath.Join(dir, "labbatch.db"),
		ExportDir:  filepath.Join(dir, "exports"),
		LogFile:    "labbatch.log",
		Categories: []string{"freezer", "bench", "storage", "shared"},
		Operations: ops,
		UISettings: UISettings{
			ShowArchived: false,
			WatchSeed:    true,
		},
	}
}

// Validate checks the configuration for values the application cannot use
func (c *Config) Validate() error {
	var errs []error
	if _, err := domain.ParseKind(c.Kind); err != nil {
		errs = append(errs, err)
	}
	switch c.Store {
	case StoreBolt:
		if strings.TrimSpace(c.DBPath) == "" {
			errs = append(errs, errors.New("db_path is required for the bolt store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("at least one category is required"))
	}
	if _, err := c.Catalog(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ItemKind returns the parsed kind. Call Validate first.
func (c *Config) ItemKind() domain.Kind {
	k, err := domain.ParseKind(c.Kind)
	if err != nil {
		return domain.KindDevice
	}
	return k
}

// Noun returns the display noun for the listed items
func (c *Config) Noun() string {
	if c.ItemType != "" {
		return c.ItemType
	}
	return c.ItemKind().Noun()
}

// Catalog builds the operation catalog from Operations. An empty list
// means the default catalog.
func (c *Config) Catalog() (batch.Catalog, error) {
	if len(c.Operations) == 0 {
		return batch.DefaultCatalog(), nil
	}
	ids := make([]batch.OperationID, 0, len(c.Operations))
	for _, raw := range c.Operations {
		id, err := batch.ParseOperationID(raw)
		if err != nil {
			return batch.Catalog{}, err
		}
		ids = append(ids, id)
	}
	return batch.NewCatalog(ids...)
}

// ApplyOverrides copies every key set in v (flag, env or viper config) over cfg
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	if v == nil {
		return
	}
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			if s := v.GetString(key); s != "" {
				*dst = s
			}
		}
	}
	setString("kind", &cfg.Kind)
	setString("item_type", &cfg.ItemType)
	setString("store", &cfg.Store)
	setString("db_path", &cfg.DBPath)
	setString("export_dir", &cfg.ExportDir)
	setString("seed_path", &cfg.SeedPath)
	setString("log_file", &cfg.LogFile)

	if v.IsSet("categories") {
		if cats := v.GetStringSlice("categories"); len(cats) > 0 {
			cfg.Categories = cats
		}
	}
	if v.IsSet("operations") {
		if ops := v.GetStringSlice("operations"); len(ops) > 0 {
			cfg.Operations = ops
		}
	}
	if v.IsSet("ui.show_archived") {
		cfg.UISettings.ShowArchived = v.GetBool("ui.show_archived")
	}
	if v.IsSet("ui.watch_seed") {
		cfg.UISettings.WatchSeed = v.GetBool("ui.watch_seed")
	}
}
