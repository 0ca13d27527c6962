package state

import (
	"database/sql"
	"math/big"
	"os"
	"path/filepath"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	_ "github.com/mattn/go-sqlite3"
)

var lastProcessedBlockKey = crypto.Keccak256Hash([]byte("LastProcessedBlock"))

// SQLiteCheckpoint keeps the last processed block in the kv table.
type SQLiteCheckpoint struct {
	statedb *StateDB
}

func NewSQLiteCheckpoint(statedb *StateDB) *SQLiteCheckpoint {
	return &SQLiteCheckpoint{statedb: statedb}
}

func (sc *SQLiteCheckpoint) Load() (uint64, bool, error) {
	v, ok, err := sc.statedb.GetKeyedValue(lastProcessedBlockKey)
	if err != nil || !ok {
		return 0, false, err
	}

	height := v.Big()
	if !height.IsUint64() {
		return 0, false, ErrCheckpointOverflow("kv")
	}
	return height.Uint64(), true, nil
}

func (sc *SQLiteCheckpoint) Save(height uint64) error {
	value := ethcommon.BigToHash(new(big.Int).SetUint64(height))
	return sc.statedb.SetKeyedValue(lastProcessedBlockKey, value)
}

// OpenSQLite opens (or creates) the sqlite database under dir.
func OpenSQLite(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, DefaultSQLiteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
