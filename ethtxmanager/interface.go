package ethtxmanager

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/TEENet-io/bridge-federator/agreement"
)

// TxSender signs and broadcasts a call from the federator account.
type TxSender interface {
	SendTransaction(ctx context.Context, to ethcommon.Address, data []byte, value *big.Int) (ethcommon.Hash, error)
}

// VoteEncoder builds voteTransaction calldata for the federation contract.
type VoteEncoder interface {
	Address() ethcommon.Address
	PackVoteTransaction(ev *agreement.ChainEvent) ([]byte, error)
}
