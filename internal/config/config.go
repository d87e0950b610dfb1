package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

const (
	IDStrategyCount    = "count"
	IDStrategySequence = "sequence"

	defaultSourceURL = "https://jsonplaceholder.typicode.com/users"
	defaultRedisKey  = "users"
)

var (
	ErrEmptyRunAddr        = errors.New("run address is empty")
	ErrUnknownIDStrategy   = errors.New("unknown id strategy")
	ErrNegativeTimeout     = errors.New("fetch timeout is negative")
	ErrNoSource            = errors.New("no user source configured")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrIncompleteTLSConfig = errors.New("https enabled without certificate paths")
	ErrEmptyRedisKey       = errors.New("redis source without key")
)

type ServerConfig struct {
	RunAddr      string        `env:"SERVER_ADDRESS"`
	SourceURL    string        `env:"SOURCE_URL"`
	SourceFile   string        `env:"SOURCE_FILE_PATH"`
	DatabaseDSN  string        `env:"DATABASE_DSN"`
	RedisURL     string        `env:"REDIS_URL"`
	RedisKey     string        `env:"REDIS_KEY"`
	IDStrategy   string        `env:"ID_STRATEGY"`
	LogLevel     string        `env:"LOG_LEVEL"`
	TLSCertPath  string        `env:"TLS_CERT_PATH"`
	TLSKeyPath   string        `env:"TLS_KEY_PATH"`
	Config       string        `env:"CONFIG"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"`
	EnableHTTPS  bool          `env:"ENABLE_HTTPS"`
	ProfileMode  bool          `env:"PROFILE_MODE"`
}

// ParseFlags reads the process arguments and environment.
func ParseFlags() (*ServerConfig, error) {
	return Parse(os.Args[0], os.Args[1:])
}

// Parse builds the config with precedence: INI file < flags < environment.
func Parse(name string, args []string) (*ServerConfig, error) {
	config := &ServerConfig{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&config.RunAddr, "a", ":8080", "address and port to run server")
	fs.StringVar(&config.SourceURL, "u", defaultSourceURL, "users source URL")
	fs.StringVar(&config.SourceFile, "f", "", "users source JSON file path")
	fs.StringVar(&config.DatabaseDSN, "d", "", "users source Data Source Name (DSN)")
	fs.StringVar(&config.RedisURL, "r", "", "users source redis URL")
	fs.StringVar(&config.RedisKey, "k", defaultRedisKey, "redis key holding the users")
	fs.DurationVar(&config.FetchTimeout, "t", 0, "initial fetch timeout, 0 waits forever")
	fs.StringVar(&config.IDStrategy, "i", IDStrategyCount, "local id strategy: count or sequence")
	fs.StringVar(&config.LogLevel, "l", "info", "log level")
	fs.BoolVar(&config.EnableHTTPS, "s", false, "enable HTTPS")
	fs.BoolVar(&config.ProfileMode, "p", false, "register pprof handlers")
	fs.StringVar(&config.Config, "c", "", "INI config file path")
	config.TLSCertPath = "./certs/cert.pem"
	config.TLSKeyPath = "./certs/private.pem"

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	if config.Config != "" {
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})
		if err := config.mergeFile(explicit); err != nil {
			return nil, err
		}
		// env must still win over the file
		if err := env.Parse(config); err != nil {
			return nil, fmt.Errorf("error parsing env variables: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (c *ServerConfig) mergeFile(explicit map[string]bool) error {
	file, err := ini.Load(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}
	sec := file.Section("")

	strKeys := []struct {
		dst  *string
		key  string
		flag string
	}{
		{&c.RunAddr, "server_address", "a"},
		{&c.SourceURL, "source_url", "u"},
		{&c.SourceFile, "source_file_path", "f"},
		{&c.DatabaseDSN, "database_dsn", "d"},
		{&c.RedisURL, "redis_url", "r"},
		{&c.RedisKey, "redis_key", "k"},
		{&c.IDStrategy, "id_strategy", "i"},
		{&c.LogLevel, "log_level", "l"},
		{&c.TLSCertPath, "tls_cert_path", ""},
		{&c.TLSKeyPath, "tls_key_path", ""},
	}
	for _, k := range strKeys {
		if explicit[k.flag] || !sec.HasKey(k.key) {
			continue
		}
		*k.dst = sec.Key(k.key).String()
	}

	boolKeys := []struct {
		dst  *bool
		key  string
		flag string
	}{
		{&c.EnableHTTPS, "enable_https", "s"},
		{&c.ProfileMode, "profile_mode", "p"},
	}
	for _, k := range boolKeys {
		if explicit[k.flag] || !sec.HasKey(k.key) {
			continue
		}
		v, err := sec.Key(k.key).Bool()
		if err != nil {
			return fmt.Errorf("error reading %s from config file: %w", k.key, err)
		}
		*k.dst = v
	}

	if !explicit["t"] && sec.HasKey("fetch_timeout") {
		v, err := sec.Key("fetch_timeout").Duration()
		if err != nil {
			return fmt.Errorf("error reading fetch_timeout from config file: %w", err)
		}
		c.FetchTimeout = v
	}

	return nil
}

// Validate reports every problem at once.
func (c *ServerConfig) Validate() error {
	var result *multierror.Error

	if c.RunAddr == "" {
		result = multierror.Append(result, ErrEmptyRunAddr)
	}
	if c.IDStrategy != IDStrategyCount && c.IDStrategy != IDStrategySequence {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrUnknownIDStrategy, c.IDStrategy))
	}
	if c.FetchTimeout < 0 {
		result = multierror.Append(result, ErrNegativeTimeout)
	}
	if c.DatabaseDSN == "" && c.RedisURL == "" && c.SourceFile == "" && c.SourceURL == "" {
		result = multierror.Append(result, ErrNoSource)
	}
	if c.RedisURL != "" && c.RedisKey == "" {
		result = multierror.Append(result, ErrEmptyRedisKey)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err))
	}
	if c.EnableHTTPS && (c.TLSCertPath == "" || c.TLSKeyPath == "") {
		result = multierror.Append(result, ErrIncompleteTLSConfig)
	}

	return result.ErrorOrNil()
}
