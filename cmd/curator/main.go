package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/curator/internal/app"
	"github.com/alexanderramin/curator/internal/cli"
	"github.com/alexanderramin/curator/internal/config"
	"github.com/alexanderramin/curator/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &cli.App{
		Connect: func(ctx context.Context) (*app.Session, error) {
			sess, err := app.Open(cfg, log)
			if err != nil {
				return nil, err
			}
			if err := sess.Start(ctx); err != nil {
				sess.Close()
				return nil, err
			}
			return sess, nil
		},
		// Detect interactive terminal so prompts and the editor only run
		// when someone can answer them.
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	defer a.Close()

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}
