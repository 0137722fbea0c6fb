// Package cli holds the labbatch command tree
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"labbatch/internal/config"
	"labbatch/internal/eventbus"
	"labbatch/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "labbatch",
	Short: "Batch operations over lab inventory lists",
	Long: "labbatch lists lab devices, templates or experiments and runs batch " +
		"operations (delete, archive, tag, move, export, copy, share) over a selection, " +
		"with a short undo window for reversible ones.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flag name -> config key
var flagKeys = map[string]string{
	"kind":          "kind",
	"item-type":     "item_type",
	"store":         "store",
	"db":            "db_path",
	"export-dir":    "export_dir",
	"seed":          "seed_path",
	"log-file":      "log_file",
	"categories":    "categories",
	"show-archived": "ui.show_archived",
	"watch-seed":    "ui.watch_seed",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default <user config dir>/labbatch/config.toml)")
	pf.String("kind", "", "item kind to list: device, template or experiment")
	pf.String("item-type", "", "display noun for the listed items")
	pf.String("store", "", "storage backend: bolt or memory")
	pf.String("db", "", "bolt database path")
	pf.String("export-dir", "", "directory exported files are written to")
	pf.String("seed", "", "YAML file of items imported at startup")
	pf.String("log-file", "", "log file path")
	pf.StringSlice("categories", nil, "categories offered by move")
	pf.Bool("show-archived", false, "include archived items in the list")
	pf.Bool("watch-seed", true, "reload the seed file when it changes")

	for flag, key := range flagKeys {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

// initConfig sets up environment overrides. The TOML file itself is read by
// the config service so that saving it round-trips cleanly.
func initConfig() {
	viper.SetEnvPrefix("LABBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the config file, applies flag and environment overrides
// and validates the result. bus may be nil.
func loadConfig(cmd *cobra.Command, bus eventbus.EventBus) (*config.Config, config.ConfigService, error) {
	path, _ := cmd.Flags().GetString("config")
	svc := config.NewConfigServiceWithBus(bus, path)

	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, err
	}
	config.ApplyOverrides(cfg, viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

func openStore(cfg *config.Config) (store.ItemStore, error) {
	if cfg.Store == config.StoreMemory {
		return store.NewMemoryItemStore(), nil
	}
	st, err := store.NewBoltItemStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DBPath, err)
	}
	return st, nil
}
