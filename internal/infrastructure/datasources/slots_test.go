package datasources

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"token-research.backend/internal/config"
	domainerrors "token-research.backend/internal/domain/errors"
	"token-research.backend/internal/domain/repositories"
	badgerds "token-research.backend/internal/infrastructure/datasources/badger"
)

func testConfig(backend string) *config.Config {
	cfg := config.Load()
	cfg.Storage.Backend = backend
	return cfg
}

func roundTrip(t *testing.T, store repositories.SlotStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", "v"))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestOpenSlotStore_Memory(t *testing.T) {
	store, closeFn, err := OpenSlotStore(context.Background(), testConfig(config.BackendMemory), zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	roundTrip(t, store)
}

func TestOpenSlotStore_SQLite(t *testing.T) {
	cfg := testConfig(config.BackendSQLite)
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "slots.db")

	store, closeFn, err := OpenSlotStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	roundTrip(t, store)
	require.NoError(t, closeFn())

	// reopening the same file sees the earlier write
	store, closeFn, err = OpenSlotStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestOpenSlotStore_Badger(t *testing.T) {
	cfg := testConfig(config.BackendBadger)
	cfg.Badger.Path = t.TempDir()

	store, closeFn, err := OpenSlotStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	roundTrip(t, store)
}

func TestOpenSlotStore_BadgerOpenError(t *testing.T) {
	orig := openBadger
	t.Cleanup(func() { openBadger = orig })
	openBadger = func(badgerds.Config) (*badgerdb.DB, error) { return nil, assert.AnError }

	_, _, err := OpenSlotStore(context.Background(), testConfig(config.BackendBadger), zap.NewNop())
	require.ErrorIs(t, err, assert.AnError)
}

func TestOpenSlotStore_Redis(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	defer srv.Close()

	cfg := testConfig(config.BackendRedis)
	cfg.Redis.URL = "redis://" + srv.Addr()
	cfg.Redis.Password = ""

	store, closeFn, err := OpenSlotStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	roundTrip(t, store)
}

func TestOpenSlotStore_RedisInitError(t *testing.T) {
	cfg := testConfig(config.BackendRedis)
	cfg.Redis.URL = "://invalid-url"

	_, _, err := OpenSlotStore(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to initialize redis")
}

func TestOpenSlotStore_PostgresConnectError(t *testing.T) {
	orig := openGorm
	t.Cleanup(func() { openGorm = orig })
	openGorm = func(gorm.Dialector) (*gorm.DB, error) { return nil, assert.AnError }

	_, _, err := OpenSlotStore(context.Background(), testConfig(config.BackendPostgres), zap.NewNop())
	require.ErrorIs(t, err, assert.AnError)
	require.Contains(t, err.Error(), "failed to connect to database")
}

func TestOpenSlotStore_Unsupported(t *testing.T) {
	_, _, err := OpenSlotStore(context.Background(), testConfig("floppy"), zap.NewNop())
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedBackend)
}
