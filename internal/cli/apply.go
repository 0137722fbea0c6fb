package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"labbatch/internal/batch"
	"labbatch/internal/config"
	"labbatch/internal/export"
	"labbatch/internal/labops"
	"labbatch/internal/seed"
	"labbatch/internal/store"
)

var applyCmd = &cobra.Command{
	Use:   "apply <operation>",
	Short: "Run one batch operation over items without the TUI",
	Long: "Apply runs a catalog operation over the items named by --ids (or every " +
		"listed item with --all). Operations that ask for confirmation need --yes.",
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.StringSlice("ids", nil, "ids of the items to operate on")
	f.Bool("all", false, "operate on every listed item")
	f.BoolP("yes", "y", false, "confirm operations that ask for confirmation")
	f.StringSlice("tags", nil, "tags to add (tag)")
	f.String("category", "", "target category (move)")
	f.String("format", string(batch.FormatJSON), "export format: json, csv, excel or pdf (export)")

	rootCmd.AddCommand(applyCmd)
}

// staticView is a fixed selection for headless runs
type staticView struct {
	ids   []string
	total int
}

func (v *staticView) Selection() batch.Selection { return batch.NewSelection(v.ids, v.total) }
func (v *staticView) SelectAll(bool)             {}
func (v *staticView) ClearSelection()            { v.ids = nil }

func runApply(cmd *cobra.Command, args []string) error {
	op, err := batch.ParseOperationID(args[0])
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	ctx := contextOf(cmd)
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	kind := cfg.ItemKind()
	if cfg.SeedPath != "" {
		if _, err := seed.Import(ctx, st, cfg.SeedPath, kind); err != nil {
			return err
		}
	}
	view, err := selectionFromFlags(cmd, st, cfg)
	if err != nil {
		return err
	}

	ops := labops.New(st, export.New(cfg.ExportDir), kind)
	engine, err := batch.New(batch.Options{
		Catalog:    catalog,
		Handlers:   ops.Handlers(),
		View:       view,
		ItemType:   cfg.Noun(),
		Categories: cfg.Categories,
	})
	if err != nil {
		return err
	}

	if err := engine.OpenMenu(); err != nil {
		return err
	}
	inv, err := engine.Choose(op)
	if err != nil {
		return err
	}
	if inv == nil {
		inv, err = advance(cmd, engine, view)
		if err != nil {
			return err
		}
	}

	out, err := engine.Execute(ctx, inv)
	if err != nil {
		return err
	}
	if out.Err != nil {
		return fmt.Errorf("%s failed: %w", op, out.Err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Notice.Text)
	if path := ops.LastExport(); op == batch.OpExport && path != "" {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// advance answers the confirmation or input step from flags
func advance(cmd *cobra.Command, engine *batch.Engine, view *staticView) (*batch.Invocation, error) {
	pending, _ := engine.Pending()
	switch engine.State() {
	case batch.StateAwaitingConfirmation:
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			n := view.Selection().Count()
			_ = engine.Cancel()
			return nil, fmt.Errorf("%s (pass --yes to confirm)", batch.ConfirmText(pending.Op, n, engine.ItemType()))
		}
		return engine.Confirm()

	case batch.StateCollectingInput:
		switch in := pending.Input.(type) {
		case *batch.TagInput:
			tags, _ := cmd.Flags().GetStringSlice("tags")
			for _, t := range tags {
				in.Add(t)
			}
		case *batch.MoveInput:
			in.Category, _ = cmd.Flags().GetString("category")
		case *batch.ExportInput:
			raw, _ := cmd.Flags().GetString("format")
			format, err := batch.ParseExportFormat(raw)
			if err != nil {
				return nil, err
			}
			in.Format = format
		}
		inv, err := engine.Submit()
		if errors.Is(err, batch.ErrInputRequired) {
			_ = engine.Cancel()
			return nil, fmt.Errorf("%s needs %s", pending.Op.ID, inputFlag(pending.Op.ID))
		}
		return inv, err
	}
	return nil, fmt.Errorf("%w: %s", batch.ErrInvalidTransition, engine.State())
}

func inputFlag(op batch.OperationID) string {
	switch op {
	case batch.OpTag:
		return "--tags"
	case batch.OpMove:
		return "--category"
	default:
		return "--format"
	}
}

func selectionFromFlags(cmd *cobra.Command, st store.ItemStore, cfg *config.Config) (*staticView, error) {
	items, err := st.List(contextOf(cmd), cfg.ItemKind())
	if err != nil {
		return nil, err
	}
	listed := make([]string, 0, len(items))
	for _, item := range items {
		if item.Visible(cfg.UISettings.ShowArchived) {
			listed = append(listed, item.ID)
		}
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		return &staticView{ids: listed, total: len(listed)}, nil
	}
	ids, _ := cmd.Flags().GetStringSlice("ids")
	if len(ids) == 0 {
		return nil, errors.New("no items given: use --ids or --all")
	}
	seen := make(map[string]bool, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if !slices.Contains(listed, id) {
			return nil, fmt.Errorf("%w: %s %q", store.ErrNotFound, cfg.ItemKind(), id)
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return &staticView{ids: unique, total: len(listed)}, nil
}
