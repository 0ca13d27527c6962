package federator

import (
	"errors"
	"time"

	"github.com/TEENet-io/bridge-federator/chainsync"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryInterval = 3000 * time.Millisecond
)

type Params struct {
	// Blocks per eth_getLogs call
	PageSize uint64

	// Attempts of a pass before giving up
	RetryAttempts int

	// Fixed sleep between attempts
	RetryInterval time.Duration

	// Blocks at or below FloorBlock are never scanned
	FloorBlock uint64
}

func DefaultParams() *Params {
	return &Params{
		PageSize:      chainsync.DefaultPageSize,
		RetryAttempts: DefaultRetryAttempts,
		RetryInterval: DefaultRetryInterval,
	}
}

func (p *Params) Validate() error {
	if p.PageSize == 0 {
		return configErr("params", chainsync.ErrInvalidPageSize)
	}
	if p.RetryAttempts < 1 {
		return configErr("params", errors.New("retry attempts must be at least 1"))
	}
	if p.RetryInterval < 0 {
		return configErr("params", errors.New("retry interval must not be negative"))
	}
	return nil
}
