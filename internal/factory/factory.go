package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/cybersnake/internal/api"
	"github.com/mcoot/cybersnake/internal/dependencies/clock"
	"github.com/mcoot/cybersnake/internal/services/scores"
	"github.com/mcoot/cybersnake/internal/storage"
	"github.com/mcoot/cybersnake/internal/storage/memory"
	redisstorage "github.com/mcoot/cybersnake/internal/storage/redis"
	sqlitestorage "github.com/mcoot/cybersnake/internal/storage/sqlite"
	"github.com/mcoot/cybersnake/internal/web"
	"github.com/mcoot/cybersnake/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired server components
type App struct {
	// Storage
	Store storage.ScoreStore

	// External dependencies
	Clock clock.Clock

	// Services
	ScoreService *scores.Service
	HubManager   *sse.HubManager
	Broadcaster  *sse.Broadcaster

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database settings (required if StorageType is "sqlite")
	SQLiteConfig *sqlitestorage.Config
	// ScoresConfig is passed to the score service; zero fields take defaults
	ScoresConfig scores.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), cfg.ScoresConfig, logger), nil
}

func newStore(cfg Config) (storage.ScoreStore, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		return sqlitestorage.New(*cfg.SQLiteConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.ScoreStore, clk clock.Clock, scoresCfg scores.Config, logger *slog.Logger) *App {
	scoreService := scores.New(store, clk, logger, scoresCfg)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	scoreService.SetNotifier(broadcaster)

	return &App{
		Store:        store,
		Clock:        clk,
		ScoreService: scoreService,
		HubManager:   hubManager,
		Broadcaster:  broadcaster,
		logger:       logger,
	}
}

// HandlerConfig holds settings for the combined HTTP handler
type HandlerConfig struct {
	CORSOrigins []string
	// StaticDir is served under /static/ when set
	StaticDir string
}

// Handler mounts the JSON API under /api/ and the leaderboard page at /
func (a *App) Handler(cfg HandlerConfig) http.Handler {
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:       a.logger,
		ScoreService: a.ScoreService,
		CORSOrigins:  cfg.CORSOrigins,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:      a.logger,
		Leaderboard: a.ScoreService,
		HubManager:  a.HubManager,
		StaticDir:   cfg.StaticDir,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)
	return mux
}

// Close disconnects live clients and releases the store
func (a *App) Close() error {
	a.HubManager.Close()
	return a.Store.Close()
}
