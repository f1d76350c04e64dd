package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opugacodez/tokei/internal/broadcast"
	"github.com/opugacodez/tokei/internal/clock"
	"github.com/opugacodez/tokei/internal/config"
	"github.com/opugacodez/tokei/internal/manager"
	"github.com/opugacodez/tokei/internal/notify"
	"github.com/opugacodez/tokei/internal/storage"
	"github.com/opugacodez/tokei/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tokei failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = storage.DefaultPath(); err != nil {
			return err
		}
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var gateway notify.Gateway = notify.Noop{}
	var local <-chan notify.LocalMessage
	if cfg.DesktopNotifications {
		desktop := notify.NewDesktop(cfg.NotifyBuffer)
		desktop.RequestPermission()
		gateway = desktop
		local = desktop.Local()
	}

	bus := broadcast.NewBus()
	defer bus.Close()
	updates := bus.Subscribe(cfg.NotifyBuffer)

	confirmer := update.NewDialogConfirmer()

	mgr, err := manager.New(manager.Config{
		Store:     store,
		Gateway:   gateway,
		Confirmer: confirmer,
		Bus:       bus,
	})
	if err != nil {
		return err
	}
	defer mgr.Close()

	model := update.NewModel(update.Config{
		Manager:   mgr,
		Clock:     clock.New(context.Background(), store),
		ExportDir: cfg.ExportDir,
		Local:     local,
		Updates:   updates,
		Confirms:  confirmer.Requests(),
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
