package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/stakeledger/internal/dependencies/clock"
	"github.com/mcoot/stakeledger/internal/dependencies/salt"
	"github.com/mcoot/stakeledger/internal/services/auth"
	"github.com/mcoot/stakeledger/internal/services/cashgame"
	"github.com/mcoot/stakeledger/internal/services/scheduler"
	"github.com/mcoot/stakeledger/internal/services/tournament"
	"github.com/mcoot/stakeledger/internal/services/wallet"
	"github.com/mcoot/stakeledger/internal/storage"
	"github.com/mcoot/stakeledger/internal/storage/memory"
	redisstorage "github.com/mcoot/stakeledger/internal/storage/redis"
	"github.com/mcoot/stakeledger/internal/storage/sqlite"
	"github.com/mcoot/stakeledger/internal/token"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// DefaultSessionPurgeInterval is how often expired sessions are dropped
const DefaultSessionPurgeInterval = 10 * time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Store
	Ledger  token.Factory

	// External dependencies
	Clock clock.Clock
	Salt  salt.Generator

	// Services
	AuthService   *auth.Service
	WalletService *wallet.Service
	CashGames     *cashgame.Controller
	Tournaments   *tournament.Controller
	Scheduler     *scheduler.Scheduler
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// WalletConfig holds faucet settings (optional)
	// If zero value, the faucet is disabled
	WalletConfig wallet.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database path (optional)
	// If nil, defaults to sqlite.DefaultConfig()
	SQLiteConfig *sqlite.Config
	// SessionPurgeInterval sets the session purge schedule (optional)
	SessionPurgeInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), salt.New(), cfg.AuthConfig, cfg.WalletConfig, logger)

	interval := cfg.SessionPurgeInterval
	if interval == 0 {
		interval = DefaultSessionPurgeInterval
	}
	sched, err := scheduler.New(app.AuthService, interval, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	app.Scheduler = sched

	return app, nil
}

func newStore(cfg Config) (storage.Store, error) {
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
		sqliteCfg := sqlite.DefaultConfig()
		if cfg.SQLiteConfig != nil {
			sqliteCfg = *cfg.SQLiteConfig
		}
		return sqlite.New(sqliteCfg)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Store,
	clk clock.Clock,
	slt salt.Generator,
	authCfg auth.Config,
	walletCfg wallet.Config,
	logger *slog.Logger,
) *App {
	ledger := token.CustodyFactory(logger)

	return &App{
		Storage:       store,
		Ledger:        ledger,
		Clock:         clk,
		Salt:          slt,
		AuthService:   auth.New(store, clk, slt, logger, authCfg),
		WalletService: wallet.New(store, ledger, walletCfg, logger),
		CashGames:     cashgame.NewController(store, ledger, clk, slt, logger),
		Tournaments:   tournament.NewController(store, ledger, clk, slt, logger),
	}
}

// Close releases the storage backend and stops the scheduler if running
func (a *App) Close() error {
	var errs []error
	if a.Scheduler != nil {
		errs = append(errs, a.Scheduler.Shutdown())
	}
	errs = append(errs, a.Storage.Close())
	return errors.Join(errs...)
}
