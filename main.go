package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/polyrabbit/coin-dashboard/config"
	"github.com/polyrabbit/coin-dashboard/fetch"
	"github.com/polyrabbit/coin-dashboard/http"
	"github.com/polyrabbit/coin-dashboard/query"
	"github.com/polyrabbit/coin-dashboard/tui"
	"github.com/polyrabbit/coin-dashboard/writer"
	"github.com/sirupsen/logrus"
)

func useTUI(cfg *config.Config) bool {
	switch cfg.Mode {
	case config.ModeTUI:
		return true
	case config.ModePlain:
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runTUI(ctx context.Context, cfg *config.Config, session *query.Session) error {
	// The screen belongs to the dashboard now
	logrus.SetOutput(cfg.LogOutput())
	defer logrus.SetOutput(colorable.NewColorableStderr())

	refresh := time.Duration(cfg.Refresh) * time.Second
	program := tea.NewProgram(tui.New(ctx, session, refresh), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func runPlain(ctx context.Context, cfg *config.Config, session *query.Session) fetch.State {
	if cfg.Refresh != 0 {
		logrus.Infof("Auto refresh on every %d seconds", cfg.Refresh)
	}

	var w = writer.New(colorable.NewColorableStdout(), cfg) // For Windows
	if cfg.LogFile != "" {
		logrus.SetOutput(cfg.LogOutput())
	} else {
		logrus.SetOutput(w)
	}
	defer logrus.SetOutput(colorable.NewColorableStderr())

	doneCh := session.Start(ctx)
	for {
		state := <-doneCh
		w.Render(session.Snapshot())
		if cfg.Refresh == 0 {
			return state
		}
		// Use sleep here so I can stall as much as I can to avoid exceeding API limit
		select {
		case <-ctx.Done():
			return state
		case <-time.After(time.Duration(cfg.Refresh) * time.Second):
		}
		doneCh = session.Reload(ctx)
	}
}

func main() {
	cfg := config.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := fetch.New(http.New(cfg), fetch.Options{})
	params := query.Params{Limit: cfg.Limit, Filter: cfg.Filter, Sort: cfg.SortKey()}
	session := query.NewSession(cfg.APIURL, params, ctrl)

	if useTUI(cfg) {
		if err := runTUI(ctx, cfg, session); err != nil && err != tea.ErrProgramKilled {
			logrus.Fatalf("Dashboard exited with error: %v", err)
		}
		return
	}

	if state := runPlain(ctx, cfg, session); state.Status == fetch.Error {
		stop()
		os.Exit(1)
	}
}
