// Package chainsync decides which block ranges of the source chain are
// safe to scan in a pass.
package chainsync

import (
	"errors"

	"github.com/TEENet-io/bridge-federator/agreement"
)

const DefaultPageSize uint64 = 1000

var ErrInvalidPageSize = errors.New("page size must be greater than zero")

// SafeHeight returns current - confirmations. The second value is false
// when the chain is not yet deeper than the confirmation depth.
func SafeHeight(current, confirmations uint64) (uint64, bool) {
	if current <= confirmations {
		return 0, false
	}
	return current - confirmations, true
}

// ResumeFrom returns the first height not covered by the checkpoint.
// A checkpoint below the floor is lifted to the floor.
func ResumeFrom(checkpoint, floor uint64) uint64 {
	if checkpoint < floor {
		checkpoint = floor
	}
	return checkpoint + 1
}

// Plan splits [max(checkpoint, floor)+1, current-confirmations] into
// contiguous ranges of at most pageSize blocks. An empty result means
// there is no work.
func Plan(current, confirmations, checkpoint, floor, pageSize uint64) ([]agreement.BlockRange, error) {
	if pageSize == 0 {
		return nil, ErrInvalidPageSize
	}

	safe, ok := SafeHeight(current, confirmations)
	if !ok {
		return nil, nil
	}

	if checkpoint >= safe || floor >= safe {
		return nil, nil
	}
	from := ResumeFrom(checkpoint, floor)

	ranges := make([]agreement.BlockRange, 0, (safe-from)/pageSize+1)
	for {
		to := safe
		// from+pageSize-1 < safe, written to stay clear of overflow
		if safe-from >= pageSize {
			to = from + pageSize - 1
		}
		ranges = append(ranges, agreement.BlockRange{From: from, To: to})
		if to == safe {
			break
		}
		from = to + 1
	}

	return ranges, nil
}
