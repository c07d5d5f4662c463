package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gridmesh/internal/annotation"
	"gridmesh/internal/config"
	"gridmesh/internal/ctxlog"
	"gridmesh/internal/grid"
	"gridmesh/internal/server"
)

func main() {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		log.Fatal(err)
	}

	logger := ctxlog.New(os.Stderr, cfg.LogLevel)
	grid.SetLogger(logger)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	db, err := annotation.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	backend := annotation.NewSQLiteBackend(db)
	if err := backend.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	grids := annotation.NewManager(backend,
		annotation.WithGridOptions(cfg.GridOptions()...),
		annotation.WithRefinement(cfg.Refinement),
		annotation.WithLogger(logger),
		annotation.WithListener(func(ev annotation.Event) {
			if ev.Kind != annotation.Repainted {
				logger.Debug("grid event", "image", ev.ImageID, "kind", ev.Kind.String(), "lines", len(ev.Lines))
			}
		}))

	app := server.New(ctx, cfg, grids)

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting gridmesh service", "addr", addr, "env", cfg.Env)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
