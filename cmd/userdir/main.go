package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rawen554/userdir/internal/app"
	"github.com/rawen554/userdir/internal/config"
	"github.com/rawen554/userdir/internal/directory"
	"github.com/rawen554/userdir/internal/logger"
	"github.com/rawen554/userdir/internal/source"
)

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

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

	go func() {
		loadCtx := context.WithoutCancel(ctx)
		if config.FetchTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, config.FetchTimeout)
			defer cancel()
		}
		if err := dir.Load(loadCtx); err != nil {
			logger.Error(err)
		}
	}()

	a := app.NewApp(config, dir, logger.Named("app"))
	srv := &http.Server{
		Addr:              config.RunAddr,
		Handler:           a.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s (https: %t)", config.RunAddr, config.EnableHTTPS)
		if config.EnableHTTPS {
			if err := a.EnsureCertificates(); err != nil {
				errCh <- err
				return
			}
			errCh <- srv.ListenAndServeTLS(config.TLSCertPath, config.TLSKeyPath)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
