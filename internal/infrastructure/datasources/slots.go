package datasources

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"token-research.backend/internal/config"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/internal/domain/repositories"
	badgerds "token-research.backend/internal/infrastructure/datasources/badger"
	repoimpl "token-research.backend/internal/infrastructure/repositories"
	"token-research.backend/pkg/redis"
)

// CloseFunc releases whatever the opened backend holds
type CloseFunc func() error

func noopClose() error { return nil }

var (
	openGorm = func(dialector gorm.Dialector) (*gorm.DB, error) {
		return gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	}
	initRedis  = redis.Init
	openBadger = badgerds.Open
)

// OpenSlotStore opens the backend named by cfg.Storage.Backend
func OpenSlotStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.SlotStore, CloseFunc, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return repoimpl.NewMemorySlotRepository(), noopClose, nil

	case config.BackendSQLite:
		return openSQL(ctx, sqlite.Open(cfg.Storage.SQLitePath))

	case config.BackendPostgres:
		return openSQL(ctx, postgres.New(postgres.Config{
			DSN:                  cfg.Database.URL(),
			PreferSimpleProtocol: true,
		}))

	case config.BackendRedis:
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		return redis.NewSlotStore(), redis.Close, nil

	case config.BackendBadger:
		bcfg := badgerds.DefaultConfig(cfg.Badger.Path)
		bcfg.Logger = log
		db, err := openBadger(bcfg)
		if err != nil {
			return nil, nil, err
		}
		store := badgerds.NewSlotStore(db)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", domainerrors.ErrUnsupportedBackend, cfg.Storage.Backend)
	}
}

func openSQL(ctx context.Context, dialector gorm.Dialector) (repositories.SlotStore, CloseFunc, error) {
	db, err := openGorm(dialector)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get generic database object: %w", err)
	}

	repo := repoimpl.NewSlotRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate slots table: %w", err)
	}
	return repo, sqlDB.Close, nil
}
