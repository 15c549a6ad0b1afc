package config

import (
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"
	StoreEnv       = "STORE"
	LogLevelEnv    = "LOG_LEVEL"

	TMDBAPIKeyEnv         = "TMDB_API_KEY"
	TMDBBaseURLEnv        = "TMDB_BASE_URL"
	TMDBTimeoutSecondsEnv = "TMDB_TIMEOUT_SECONDS"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	defaultPort        = 3000
	defaultTMDBBaseURL = "https://api.themoviedb.org/3"
	defaultTMDBTimeout = 10
)

type TMDBConfiguration struct {
	APIKey  string
	BaseURL *url.URL
	Timeout time.Duration
}

type Config struct {
	Logger *zap.Logger

	Port           int
	RootPath       string
	PublicPath     string
	Store          string
	DatabaseURL    string
	MigrationsPath string

	TMDB TMDBConfiguration
}

func Load() (Config, error) {
	logger, err := newLogger(env.GetStringOrDefault(LogLevelEnv, "info"))
	if err != nil {
		return Config{}, err
	}

	port, err := env.GetIntOrDefault(PortEnv, defaultPort)
	if err != nil {
		return Config{}, err
	}

	rootPath := env.GetStringOrDefault(RootPathEnv, ".")

	store := env.GetStringOrDefault(StoreEnv, StoreMemory)
	dbURL := env.GetStringOrDefault(DatabaseUrlEnv, "")

	switch store {
	case StoreMemory:
	case StorePostgres:
		if dbURL == "" {
			return Config{}, fmt.Errorf("%s is required when %s=%s", DatabaseUrlEnv, StoreEnv, StorePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unsupported %s '%s'", StoreEnv, store)
	}

	tmdbBaseURL, err := env.GetURLOrDefault(TMDBBaseURLEnv, defaultTMDBBaseURL)
	if err != nil {
		return Config{}, err
	}

	tmdbTimeout, err := env.GetIntOrDefault(TMDBTimeoutSecondsEnv, defaultTMDBTimeout)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Logger:         logger,
		Port:           port,
		RootPath:       rootPath,
		PublicPath:     path.Join(rootPath, "public"),
		Store:          store,
		DatabaseURL:    dbURL,
		MigrationsPath: path.Join(rootPath, "db", "migrations"),
		TMDB: TMDBConfiguration{
			APIKey:  env.GetStringOrDefault(TMDBAPIKeyEnv, ""),
			BaseURL: tmdbBaseURL,
			Timeout: time.Duration(tmdbTimeout) * time.Second,
		},
	}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s '%s': %w", LogLevelEnv, level, err)
	}

	conf := zap.NewProductionConfig()
	conf.Level = atomicLevel

	return conf.Build()
}
