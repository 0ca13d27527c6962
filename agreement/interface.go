package agreement

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SourceChain is the read capability on the chain we watch.
type SourceChain interface {
	// BlockNumber returns the current head height.
	BlockNumber(ctx context.Context) (uint64, error)

	// ChainID identifies the chain, used to pick the confirmation depth.
	ChainID(ctx context.Context) (*big.Int, error)
}

// EventSource fetches the Cross events of the source bridge.
// Events must be returned in the order the chain emitted them.
// A failed or absent result is an error, never an empty slice.
type EventSource interface {
	GetCrossEvents(ctx context.Context, r BlockRange) ([]ChainEvent, error)
}

// Federation is the read side of the federation contract on the
// destination chain. It is the source of truth for the vote status.
type Federation interface {
	// GetTransactionId derives the id of the transfer from all fields of the event.
	GetTransactionId(ctx context.Context, ev *ChainEvent) (common.Hash, error)

	// TransactionWasProcessed tells whether quorum was reached and the transfer executed.
	TransactionWasProcessed(ctx context.Context, txId common.Hash) (bool, error)

	// HasVoted tells whether this federator already voted for the transfer.
	HasVoted(ctx context.Context, txId common.Hash) (bool, error)
}

// VoteSubmitter casts a vote for the event on the federation contract.
// It returns after the vote transaction was submitted.
type VoteSubmitter interface {
	SubmitVote(ctx context.Context, ev *ChainEvent, txId common.Hash) error
}

// CheckpointStore persists the last fully processed block height.
type CheckpointStore interface {
	// Load returns the stored height and whether one exists.
	Load() (uint64, bool, error)

	// Save must be atomic: readers see either the old or the new height.
	Save(height uint64) error
}
