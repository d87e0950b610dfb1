package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rawen554/userdir/internal/config"
	"github.com/rawen554/userdir/internal/directory"
	"github.com/rawen554/userdir/internal/logger"
	"github.com/rawen554/userdir/internal/prompt"
	"github.com/rawen554/userdir/internal/source"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	config, err := config.ParseFlags()
	if err != nil {
		return err
	}

	logger, err := logger.NewLogger(config.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	src, err := source.New(ctx, config, logger.Named("source"))
	if err != nil {
		return err
	}
	defer src.Close()

	strategy, err := directory.ParseIDStrategy(config.IDStrategy)
	if err != nil {
		return err
	}
	dir, err := directory.NewUserDirectory(src, strategy, logger.Named("directory"))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "loading users...")
	loadCtx := ctx
	if config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, config.FetchTimeout)
		defer cancel()
	}
	if err := dir.Load(loadCtx); err != nil {
		return err
	}

	in := prompt.NewTerminal(os.Stdin, os.Stdout)
	return runShell(&session{dir: dir, confirm: in, out: os.Stdout}, in, os.Stderr)
}
