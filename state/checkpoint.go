package state

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/bridge-federator/agreement"
)

// NewCheckpointStore builds the configured backend. The returned close
// function releases whatever the backend holds open.
func NewCheckpointStore(cfg *Config) (agreement.CheckpointStore, func(), error) {
	switch cfg.Backend {
	case "", BackendFile:
		fc, err := NewFileCheckpoint(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("path", fc.Path()).Info("using file checkpoint")
		return fc, func() {}, nil

	case BackendSQLite:
		db, err := OpenSQLite(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		statedb, err := NewStateDB(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.WithField("dir", cfg.StoragePath).Info("using sqlite checkpoint")
		return NewSQLiteCheckpoint(statedb), func() {
			statedb.Close()
			db.Close()
		}, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
