package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gridmesh/internal/annotation"
	"gridmesh/internal/config"
	"gridmesh/internal/ctxlog"
	"gridmesh/internal/grid"
	"gridmesh/internal/tui"
)

func main() {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		log.Fatal(err)
	}

	// The terminal belongs to the UI; logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "gridmesh")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}
	logger := ctxlog.New(w, cfg.LogLevel)
	slog.SetDefault(logger)
	grid.SetLogger(logger)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	db, err := annotation.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	backend := annotation.NewSQLiteBackend(db)
	if err := backend.Init(ctx); err != nil {
		log.Fatal(err)
	}

	var m tea.Model
	if len(os.Args) > 1 {
		m = tui.NewWithPath(ctx, cfg, backend, os.Args[1])
	} else {
		m = tui.New(ctx, cfg, backend)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		logger.Error("program failed", "err", err)
		log.Fatal(err)
	}
}
