package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"labbatch/internal/config"
	"labbatch/internal/seed"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the batch operations offered by the current config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tCONFIRM\tINPUT\tUNDO")
		for _, op := range catalog.Descriptors() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				op.ID, op.Label, yesNo(op.RequiresConfirmation), yesNo(op.RequiresInput), yesNo(op.Reversible()))
		}
		return w.Flush()
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		svc := config.NewConfigServiceWithBus(nil, path)

		if _, err := os.Stat(svc.Path()); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", svc.Path())
		}
		if err := svc.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import items from a YAML seed file into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		if cfg.Store == config.StoreMemory {
			return errors.New("seeding the memory store has no lasting effect; use --store bolt")
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := seed.Import(contextOf(cmd), st, args[0], cfg.ItemKind())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items into %s\n", n, cfg.DBPath)
		return nil
	},
}

func init() {
	initConfigCmd.Flags().Bool("force", false, "overwrite an existing config file")

	rootCmd.AddCommand(opsCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(seedCmd)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
