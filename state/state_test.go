package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getMemoryDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection would get its own in-memory database
	db.SetMaxOpenConns(1)
	return db
}

func TestKV(t *testing.T) {
	sqlDB := getMemoryDB(t)
	db, err := NewStateDB(sqlDB)
	require.NoError(t, err)
	defer func() {
		db.Close()
		sqlDB.Close()
	}()

	key := ethcommon.Hash{}
	key.SetBytes([]byte("key"))

	_, ok, err := db.GetKeyedValue(key)
	assert.NoError(t, err)
	assert.False(t, ok)

	val := ethcommon.Hash{}
	val.SetBytes([]byte("value1"))
	assert.NoError(t, db.SetKeyedValue(key, val))

	v, ok, err := db.GetKeyedValue(key)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value1"), ethcommon.TrimLeftZeroes(v[:]))

	val.SetBytes([]byte("value2"))
	assert.NoError(t, db.SetKeyedValue(key, val))
	v, _, err = db.GetKeyedValue(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("value2"), ethcommon.TrimLeftZeroes(v[:]))
}

func TestSQLiteCheckpoint(t *testing.T) {
	sqlDB := getMemoryDB(t)
	defer sqlDB.Close()
	db, err := NewStateDB(sqlDB)
	require.NoError(t, err)
	defer db.Close()

	cp := NewSQLiteCheckpoint(db)
	_, ok, err := cp.Load()
	assert.NoError(t, err)
	assert.False(t, ok)

	for _, h := range []uint64{0, 1990, ^uint64(0)} {
		require.NoError(t, cp.Save(h))
		got, ok, err := cp.Load()
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, h, got)
	}

	// a value wider than 64 bits is not a height
	wide := ethcommon.Hash{}
	wide[0] = 1
	require.NoError(t, db.SetKeyedValue(lastProcessedBlockKey, wide))
	_, _, err = cp.Load()
	assert.Equal(t, ErrCheckpointOverflow("kv"), err)
}

func TestFileCheckpoint(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")

	cp, err := NewFileCheckpoint(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultCheckpointFile), cp.Path())

	_, ok, err := cp.Load()
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cp.Save(1000))
	got, ok, err := cp.Load()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1000), got)

	require.NoError(t, cp.Save(1990))
	b, err := os.ReadFile(cp.Path())
	require.NoError(t, err)
	assert.Equal(t, "1990", string(b))

	// no temp file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// a reopened store sees the saved value
	cp2, err := NewFileCheckpoint(dir)
	require.NoError(t, err)
	got, _, err = cp2.Load()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1990), got)
}

func TestSyncDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, syncDir(dir))
	assert.Error(t, syncDir(filepath.Join(dir, "missing")))

	cp, err := NewFileCheckpoint(dir)
	require.NoError(t, err)
	require.NoError(t, cp.Save(42))

	// the storage directory is gone, nothing can be persisted
	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, cp.Save(43))
}

func TestFileCheckpointTolerantReads(t *testing.T) {
	dir := t.TempDir()
	cp, err := NewFileCheckpoint(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(cp.Path(), []byte("  77\n"), 0o644))
	got, ok, err := cp.Load()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(77), got)

	require.NoError(t, os.WriteFile(cp.Path(), []byte("seventy"), 0o644))
	_, ok, err = cp.Load()
	assert.Error(t, err)
	assert.False(t, ok)

	// a corrupt file is overwritten by the next save
	require.NoError(t, cp.Save(78))
	got, _, err = cp.Load()
	assert.NoError(t, err)
	assert.Equal(t, uint64(78), got)
}

func TestNewCheckpointStore(t *testing.T) {
	dir := t.TempDir()

	store, closeFn, err := NewCheckpointStore(&Config{StoragePath: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileCheckpoint{}, store)
	closeFn()

	store, closeFn, err = NewCheckpointStore(&Config{Backend: BackendSQLite, StoragePath: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteCheckpoint{}, store)
	require.NoError(t, store.Save(5))
	closeFn()

	// persisted across reopen
	store, closeFn, err = NewCheckpointStore(&Config{Backend: BackendSQLite, StoragePath: dir})
	require.NoError(t, err)
	defer closeFn()
	got, ok, err := store.Load()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), got)

	_, _, err = NewCheckpointStore(&Config{Backend: "redis", StoragePath: dir})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
