// Package etherman talks to the bridge contract on the source chain and
// to the federation contract on the destination chain.
package etherman

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/TEENet-io/bridge-federator/agreement"
)

var (
	ErrNilEventAmount = errors.New("event amount or granularity is nil")
	ErrNilCallResult  = errors.New("contract call returned no value")
)

// sourceClient is what the source side needs from a node.
type sourceClient interface {
	ethereum.BlockNumberReader
	ethereum.ChainIDReader
	ethereum.LogFilterer
}

// federationClient is what the destination side needs from a node. Vote
// status is read from the pending state so that a sent but unmined vote
// counts as cast.
type federationClient interface {
	bind.ContractCaller
	bind.PendingContractCaller
}

func ErrNilLogs(r agreement.BlockRange) error {
	return fmt.Errorf("eth_getLogs returned no result for blocks %v", r)
}

func ErrRemovedLog(txHash ethcommon.Hash, index uint) error {
	return fmt.Errorf("log %d of tx %s was removed by a reorg", index, txHash.Hex())
}

func ErrLogIndexOverflow(index uint) error {
	return fmt.Errorf("log index %d does not fit in uint32", index)
}
