package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"labbatch/internal/eventbus"
	"labbatch/internal/export"
	"labbatch/internal/labops"
	"labbatch/internal/seed"
	"labbatch/internal/ui"
)

// events the UI reacts to
var uiEvents = []eventbus.EventType{
	eventbus.EventItemsChanged,
	eventbus.EventError,
}

func runTUI(cmd *cobra.Command, args []string) error {
	bus := eventbus.New()
	defer bus.Close()

	cfg, configSvc, err := loadConfig(cmd, bus)
	if err != nil {
		return err
	}

	// Set up logging
	if logFile := openLog(cfg.LogFile); logFile != nil {
		defer logFile.Close()
	}
	log.Printf("Starting labbatch with %s (%s store)", configSvc.Path(), cfg.Store)

	stopAudit := eventbus.Audit(bus, log.Printf)
	defer stopAudit()

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	kind := cfg.ItemKind()
	var seedChanges <-chan string
	if cfg.SeedPath != "" {
		if n, err := seed.Import(ctx, st, cfg.SeedPath, kind); err != nil {
			log.Printf("Error importing seed file: %v", err)
		} else {
			log.Printf("Imported %d items from %s", n, cfg.SeedPath)
		}
		if cfg.UISettings.WatchSeed {
			if w := startWatcher(cfg.SeedPath); w != nil {
				defer w.Stop()
				seedChanges = w.Changes
			}
		}
	}

	ops := labops.New(st, export.New(cfg.ExportDir), kind, labops.WithPublisher(bus))

	// Create UI model
	m, err := ui.NewModel(ui.Options{
		Config:      cfg,
		Store:       st,
		Handlers:    ops.Handlers(),
		Bus:         bus,
		SeedChanges: seedChanges,
		Context:     ctx,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	for _, t := range uiEvents {
		unsubscribe := bus.Subscribe(t, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				log.Printf("Event channel full, dropping %s", e.Type())
			}
		})
		defer unsubscribe()
	}
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	// Run the UI
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// openLog points the standard logger at path. Failure leaves logging on
// stderr, which the alternate screen hides.
func openLog(path string) *os.File {
	if path == "" {
		return nil
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return nil
	}
	log.SetOutput(logFile)
	return logFile
}

func startWatcher(path string) *seed.Watcher {
	w, err := seed.NewWatcher(path)
	if err != nil {
		log.Printf("Error watching seed file: %v", err)
		return nil
	}
	if err := w.Start(); err != nil {
		log.Printf("Error watching seed file: %v", err)
		return nil
	}
	return w
}
