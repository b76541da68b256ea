package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/angeloszaimis/bingo-gateway/config"
	"github.com/angeloszaimis/bingo-gateway/internal/handler"
	"github.com/angeloszaimis/bingo-gateway/internal/headers"
	"github.com/angeloszaimis/bingo-gateway/internal/httpserver"
	"github.com/angeloszaimis/bingo-gateway/internal/render"
	"github.com/angeloszaimis/bingo-gateway/internal/resolver"
	"github.com/angeloszaimis/bingo-gateway/internal/rewrite"
	"github.com/angeloszaimis/bingo-gateway/pkg/logger"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	// stdout is reserved for the printed document.
	log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, true, cfg.Server.Environment)

	res, err := resolve(cfg, log)
	if err != nil {
		log.Error("Failed to resolve configuration",
			slog.String("origin", cfg.Backend.Origin),
			slog.Any("err", err))
		os.Exit(1)
	}

	if !cfg.Server.Serve {
		if err := printDocument(os.Stdout, res, cfg.Output.Format); err != nil {
			log.Error("Failed to write configuration", slog.Any("err", err))
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, cfg, res, log); err != nil {
		log.Error("Error publishing configuration", slog.Any("err", err))
		os.Exit(1)
	}
}

func resolve(cfg *config.Config, log *slog.Logger) (*resolver.Resolved, error) {
	res, err := resolver.Resolve(resolver.Options{
		Origin:      cfg.Backend.Origin,
		CORSEnabled: cfg.CORS.Enabled,
		Externals:   cfg.Bundler.Externals,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Resolved configuration",
		slog.String("origin", res.Origin),
		slog.Bool("cors", cfg.CORS.Enabled),
		slog.Int("rewrites", len(res.Rewrites)),
		slog.Int("header_rules", len(res.Headers)),
		slog.Any("externals", res.Externals))

	return res, nil
}

func printDocument(w io.Writer, res *resolver.Resolved, format string) error {
	return render.Write(w, render.NewDocument(res), format)
}

func serve(ctx context.Context, cfg *config.Config, res *resolver.Resolved, log *slog.Logger) error {
	h, err := newHandler(res, log)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(cfg.Server.Address, h, log)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	return srv.Run(ctx)
}

func newHandler(res *resolver.Resolved, log *slog.Logger) (http.Handler, error) {
	table, err := rewrite.New(res.Rewrites)
	if err != nil {
		return nil, fmt.Errorf("compile rewrites: %w", err)
	}

	applier, err := headers.New(res.Headers)
	if err != nil {
		return nil, fmt.Errorf("compile headers: %w", err)
	}

	configHandler := handler.NewConfigHandler(log, render.NewDocument(res), table)

	return applier.Middleware(setupRouter(configHandler)), nil
}
