// Package source picks the read-only origin of the initial user list.
package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rawen554/userdir/internal/config"
	"github.com/rawen554/userdir/internal/models"
	"github.com/rawen554/userdir/internal/source/fs"
	"github.com/rawen554/userdir/internal/source/postgres"
	"github.com/rawen554/userdir/internal/source/redis"
	"github.com/rawen554/userdir/internal/source/remote"
	"go.uber.org/zap"
)

type Source interface {
	Fetch(ctx context.Context) ([]models.User, error)
	Close()
}

// New prefers a database, then redis, then a local file, then the HTTP endpoint.
func New(ctx context.Context, config *config.ServerConfig, logger *zap.SugaredLogger) (Source, error) {
	switch {
	case config.DatabaseDSN != "":
		logger.Info("using postgres user source")
		s, err := postgres.NewPostgresSource(ctx, config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error initialising postgres source: %w", err)
		}
		return s, nil
	case config.RedisURL != "":
		logger.Infof("using redis user source, key %s", config.RedisKey)
		s, err := redis.NewRedisSource(config.RedisURL, config.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("error initialising redis source: %w", err)
		}
		return s, nil
	case config.SourceFile != "":
		logger.Infof("using file user source %s", config.SourceFile)
		return fs.NewFileSource(config.SourceFile), nil
	default:
		logger.Infof("using remote user source %s", config.SourceURL)
		return remote.NewRemoteSource(http.DefaultClient, config.SourceURL), nil
	}
}
