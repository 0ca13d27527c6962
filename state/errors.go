package state

import (
	"errors"
	"fmt"
)

var ErrUnknownBackend = errors.New("unknown checkpoint backend")

func ErrCorruptCheckpoint(where string, err error) error {
	return fmt.Errorf("corrupt checkpoint in %s: %w", where, err)
}

func ErrCheckpointOverflow(where string) error {
	return fmt.Errorf("checkpoint in %s does not fit in uint64", where)
}
