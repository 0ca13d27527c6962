package etherman

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/TEENet-io/bridge-federator/agreement"
	"github.com/TEENet-io/bridge-federator/contracts"
)

// Federation reads the federation contract on the destination chain and
// encodes votes for it. Vote status is always read from the contract.
type Federation struct {
	address  ethcommon.Address
	from     ethcommon.Address
	abi      *abi.ABI
	contract *bind.BoundContract
}

func NewFederation(client federationClient, cfg *FederationConfig) (*Federation, error) {
	parsed, err := contracts.FederationMetaData.GetAbi()
	if err != nil {
		return nil, err
	}

	return &Federation{
		address:  cfg.FederationAddress,
		from:     cfg.From,
		abi:      parsed,
		contract: bind.NewBoundContract(cfg.FederationAddress, *parsed, client, nil, nil),
	}, nil
}

// Address of the federation contract, votes are sent to it.
func (f *Federation) Address() ethcommon.Address {
	return f.address
}

func (f *Federation) GetTransactionId(ctx context.Context, ev *agreement.ChainEvent) (ethcommon.Hash, error) {
	args, err := voteArgs(ev)
	if err != nil {
		return ethcommon.Hash{}, err
	}

	var out []interface{}
	if err := f.contract.Call(f.callOpts(ctx, false), &out, contracts.MethodGetTransactionId, args...); err != nil {
		return ethcommon.Hash{}, err
	}
	if len(out) == 0 {
		return ethcommon.Hash{}, ErrNilCallResult
	}

	id := *abi.ConvertType(out[0], new([32]byte)).(*[32]byte)
	return ethcommon.Hash(id), nil
}

// TransactionWasProcessed and HasVoted read the pending state, a vote of
// ours still in the mempool is reported as cast.
func (f *Federation) TransactionWasProcessed(ctx context.Context, txId ethcommon.Hash) (bool, error) {
	return f.callBool(ctx, contracts.MethodTransactionWasProcessed, txId)
}

// HasVoted answers for the configured federator account.
func (f *Federation) HasVoted(ctx context.Context, txId ethcommon.Hash) (bool, error) {
	return f.callBool(ctx, contracts.MethodHasVoted, txId)
}

// PackVoteTransaction returns the calldata of voteTransaction(...) for the event.
func (f *Federation) PackVoteTransaction(ev *agreement.ChainEvent) ([]byte, error) {
	args, err := voteArgs(ev)
	if err != nil {
		return nil, err
	}
	return f.abi.Pack(contracts.MethodVoteTransaction, args...)
}

func (f *Federation) callBool(ctx context.Context, method string, txId ethcommon.Hash) (bool, error) {
	var out []interface{}
	if err := f.contract.Call(f.callOpts(ctx, true), &out, method, [32]byte(txId)); err != nil {
		return false, err
	}
	if len(out) == 0 {
		return false, ErrNilCallResult
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (f *Federation) callOpts(ctx context.Context, pending bool) *bind.CallOpts {
	return &bind.CallOpts{
		Pending: pending,
		From:    f.from,
		Context: ctx,
	}
}

// voteArgs orders the event fields the way getTransactionId and
// voteTransaction expect them.
func voteArgs(ev *agreement.ChainEvent) ([]interface{}, error) {
	if ev.Amount == nil || ev.Granularity == nil {
		return nil, ErrNilEventAmount
	}

	return []interface{}{
		ev.TokenAddress,
		ev.Receiver,
		ev.Amount,
		ev.Symbol,
		[32]byte(ev.BlockHash),
		[32]byte(ev.TxHash),
		ev.LogIndex,
		ev.Decimals,
		ev.Granularity,
	}, nil
}
