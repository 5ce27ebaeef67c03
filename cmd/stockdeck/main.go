package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stockdeck/stockdeck/internal/auth"
	"github.com/stockdeck/stockdeck/internal/blob"
	"github.com/stockdeck/stockdeck/internal/config"
	"github.com/stockdeck/stockdeck/internal/database"
	"github.com/stockdeck/stockdeck/internal/datasync"
	"github.com/stockdeck/stockdeck/internal/logging"
	"github.com/stockdeck/stockdeck/internal/model"
	"github.com/stockdeck/stockdeck/internal/prefs"
	"github.com/stockdeck/stockdeck/internal/secrets"
	"github.com/stockdeck/stockdeck/internal/store"
	"github.com/stockdeck/stockdeck/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	configDir := filepath.Join(os.Getenv("HOME"), ".config", "stockdeck")
	pf, err := prefs.Load(configDir)
	if err != nil {
		log.Fatalf("prefs: %v", err)
	}

	signingKey, err := secrets.New(configDir).SigningKey()
	if err != nil {
		log.Fatalf("signing key: %v", err)
	}

	authsvc := auth.NewSQLite(db, signingKey, pf, logger)
	authsvc.Restore(ctx)

	records := store.NewSQLite(db, logger)
	defer records.Close()

	blobs, err := blob.NewDisk(cfg.Storage.ObjectsDir, logger)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	items := datasync.NewFeed(authsvc, records, model.CollectionItems,
		func(key string, fields map[string]any) model.Record {
			return model.ItemFromFields(key, fields)
		}, logger)
	categories := datasync.NewFeed(authsvc, records, model.CollectionCategories,
		func(key string, fields map[string]any) model.Record {
			return model.CategoryFromFields(key, fields)
		}, logger)
	defer items.Close()
	defer categories.Close()

	app := tui.New(ctx, tui.Caps{
		Auth:  authsvc,
		Store: records,
		Blobs: blobs,
		Prefs: pf,
		Log:   logger,
	}, items, categories)

	p := tea.NewProgram(app, tea.WithAltScreen())
	tui.BindFeeds(p, items, categories)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
