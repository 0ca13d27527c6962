package etherman

import (
	"context"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/bridge-federator/agreement"
	"github.com/TEENet-io/bridge-federator/contracts"
)

// crossLog mirrors the Cross event, field names follow the abi
// argument names in camel case.
type crossLog struct {
	TokenAddress ethcommon.Address
	To           ethcommon.Address
	Amount       *big.Int
	Symbol       string
	UserData     []byte
	Decimals     uint8
	Granularity  *big.Int
}

// Source reads the bridge contract of the source chain.
type Source struct {
	client        sourceClient
	bridgeAddress ethcommon.Address
	bridge        *bind.BoundContract
	crossEventID  ethcommon.Hash
}

func NewSource(client sourceClient, cfg *SourceConfig) (*Source, error) {
	parsed, err := contracts.BridgeMetaData.GetAbi()
	if err != nil {
		return nil, err
	}

	return &Source{
		client:        client,
		bridgeAddress: cfg.BridgeAddress,
		bridge:        bind.NewBoundContract(cfg.BridgeAddress, *parsed, nil, nil, nil),
		crossEventID:  parsed.Events[contracts.CrossEventName].ID,
	}, nil
}

func (s *Source) BlockNumber(ctx context.Context) (uint64, error) {
	return s.client.BlockNumber(ctx)
}

func (s *Source) ChainID(ctx context.Context) (*big.Int, error) {
	return s.client.ChainID(ctx)
}

// GetCrossEvents returns the Cross events emitted in the range, in the
// order returned by the node. A null result from the node is an error,
// an empty list is not.
func (s *Source) GetCrossEvents(ctx context.Context, r agreement.BlockRange) ([]agreement.ChainEvent, error) {
	logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(r.From),
		ToBlock:   new(big.Int).SetUint64(r.To),
		Addresses: []ethcommon.Address{s.bridgeAddress},
		Topics:    [][]ethcommon.Hash{{s.crossEventID}},
	})
	if err != nil {
		return nil, err
	}
	if logs == nil {
		return nil, ErrNilLogs(r)
	}

	events := make([]agreement.ChainEvent, 0, len(logs))
	for _, vlog := range logs {
		ev, err := s.decodeCross(vlog)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}

	logger.WithFields(logger.Fields{
		"from":  r.From,
		"to":    r.To,
		"found": len(events),
	}).Debug("Cross events")

	return events, nil
}

func (s *Source) decodeCross(vlog types.Log) (*agreement.ChainEvent, error) {
	if vlog.Removed {
		return nil, ErrRemovedLog(vlog.TxHash, vlog.Index)
	}
	if vlog.Index > math.MaxUint32 {
		return nil, ErrLogIndexOverflow(vlog.Index)
	}

	out := new(crossLog)
	if err := s.bridge.UnpackLog(out, contracts.CrossEventName, vlog); err != nil {
		return nil, err
	}

	return &agreement.ChainEvent{
		TokenAddress: out.TokenAddress,
		Receiver:     out.To,
		Amount:       out.Amount,
		Symbol:       out.Symbol,
		Decimals:     out.Decimals,
		Granularity:  out.Granularity,
		BlockHash:    vlog.BlockHash,
		TxHash:       vlog.TxHash,
		LogIndex:     uint32(vlog.Index),
		BlockNumber:  vlog.BlockNumber,
		UserData:     out.UserData,
	}, nil
}
