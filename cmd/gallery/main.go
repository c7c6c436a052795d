package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/internal/core/weapon"
	"github.com/zeusync/weaponsim/internal/gallery"
	"github.com/zeusync/weaponsim/internal/injector"
)

func main() {
	configPath := flag.String("config", "configs/gallery.yaml", "gallery config file (yaml or json)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "gallery:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := gallery.LoadFile(configPath)
	if err != nil {
		return err
	}
	if err = cfg.ApplyEnv(); err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	app, err := injector.InitializeApp(cfg, catalog)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	app.Logger.Info("Weapon catalog loaded",
		log.String("path", cfg.Catalog),
		log.Any("weapons", catalog.Names()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	if app.Feed != nil {
		g.Go(func() error { return app.Feed.Run(feedCtx) })
	}
	g.Go(func() error {
		defer stopFeed()
		summary, err := app.Gallery.Run(ctx)
		if err != nil {
			return err
		}
		app.Logger.Info("Session summary",
			log.Duration("elapsed", summary.Elapsed),
			log.Int("shots", summary.Shots),
			log.Int("hits", summary.Hits),
			log.Int("kills", summary.Kills),
			log.Int("effects", summary.Effects),
			log.String("ammo", summary.HUDState.AmmoText()),
			log.String("phase", summary.Phase.String()))
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadCatalog(path string) (*weapon.Catalog, error) {
	catalog := weapon.NewCatalog()
	if path == "" {
		_, err := catalog.Apply(&weapon.CatalogFile{Weapons: []weapon.ProfileConfig{weapon.DefaultProfileConfig()}})
		return catalog, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	load := weapon.LoadYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		load = weapon.LoadJSON
	}
	file, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err = catalog.Apply(file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}
