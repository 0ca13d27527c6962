package state

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultCheckpointFile = "lastBlock.txt"
	DefaultSQLiteFile     = "federator.db"
)

type Config struct {
	// Backend is either "file" or "sqlite", empty means "file"
	Backend string

	// StoragePath is the directory holding the checkpoint, created if missing
	StoragePath string
}
