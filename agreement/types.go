// Golbal Agreement on types

package agreement

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ChainEvent represents one Cross event emitted by the bridge
// contract on the source chain.
type ChainEvent struct {
	TokenAddress common.Address // token on the source chain
	Receiver     common.Address // receiver on the destination chain
	Amount       *big.Int
	Symbol       string
	Decimals     uint8
	Granularity  *big.Int

	BlockHash common.Hash
	TxHash    common.Hash
	LogIndex  uint32

	// Not part of the transaction id, kept for logging.
	BlockNumber uint64
	UserData    []byte
}

func (ev *ChainEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

// BlockRange is an inclusive range of block heights [From, To].
type BlockRange struct {
	From uint64
	To   uint64
}

// Len returns the number of blocks covered by the range.
func (r BlockRange) Len() uint64 {
	if r.To < r.From {
		return 0
	}
	return r.To - r.From + 1
}

func (r BlockRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.From, r.To)
}
