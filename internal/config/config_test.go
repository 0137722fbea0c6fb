package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := NewConfigServiceWithBus(nil, path)

	cfg := DefaultConfig()
	cfg.Kind = "template"
	cfg.Categories = []string{"shelf"}
	cfg.Operations = []string{"delete", "tag"}
	cfg.UISettings.ShowArchived = true
	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cs := NewConfigServiceWithBus(nil, filepath.Join(t.TempDir(), "none.toml"))
	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = cs.LoadFromPath(cs.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("kind = \"experiments\"\nstore = \"memory\"\n"), 0644))

	cfg, err := NewConfigService().LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, domain.KindExperiment, cfg.ItemKind())
	assert.Equal(t, "experiments", cfg.Noun())
	assert.NotEmpty(t, cfg.Categories)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("kind = [unterminated"), 0644))

	_, err := NewConfigService().LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown kind", func(c *Config) { c.Kind = "reagent" }, true},
		{"unknown store", func(c *Config) { c.Store = "sqlite" }, true},
		{"bolt without path", func(c *Config) { c.DBPath = "" }, true},
		{"memory without path", func(c *Config) { c.Store = StoreMemory; c.DBPath = "" }, false},
		{"no categories", func(c *Config) { c.Categories = nil }, true},
		{"unknown operation", func(c *Config) { c.Operations = []string{"delete", "shred"} }, true},
		{"duplicate operation", func(c *Config) { c.Operations = []string{"tag", "tag"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogFollowsOperationsOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Operations = []string{"delete", "archive"}
	c, err := cfg.Catalog()
	require.NoError(t, err)

	var ids []batch.OperationID
	for _, d := range c.Descriptors() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []batch.OperationID{batch.OpDelete, batch.OpArchive}, ids)
}

func TestApplyOverrides(t *testing.T) {
	v := viper.New()
	v.Set("kind", "template")
	v.Set("store", StoreMemory)
	v.Set("categories", []string{"a", "b"})
	v.Set("ui.show_archived", true)

	cfg := DefaultConfig()
	exportDir := cfg.ExportDir
	ApplyOverrides(cfg, v)

	assert.Equal(t, "template", cfg.Kind)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, []string{"a", "b"}, cfg.Categories)
	assert.True(t, cfg.UISettings.ShowArchived)
	assert.Equal(t, exportDir, cfg.ExportDir, "unset keys are left alone")
}

func TestApplyOverridesFromEnv(t *testing.T) {
	t.Setenv("LABBATCH_EXPORT_DIR", "/tmp/out")
	v := viper.New()
	v.SetEnvPrefix("LABBATCH")
	v.AutomaticEnv()

	cfg := DefaultConfig()
	ApplyOverrides(cfg, v)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
}
