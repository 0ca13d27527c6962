package federator

import (
	"context"
	"encoding/binary"
	"errors"
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/TEENet-io/bridge-federator/agreement"
	"github.com/TEENet-io/bridge-federator/common"
)

var errRPC = errors.New("rpc unavailable")

// MockBridge plays both chains: the source bridge emitting Cross events
// and the federation contract tallying votes of this federator.
type MockBridge struct {
	mu sync.Mutex

	head    uint64
	chainID *big.Int
	events  []agreement.ChainEvent

	processed map[ethcommon.Hash]bool
	voted     map[ethcommon.Hash]bool

	// number of upcoming calls that fail
	failBlockNumber int
	failGetLogs     int
	failVote        int
	// fail GetCrossEvents only for ranges starting here
	failGetLogsFrom uint64

	getLogs         []agreement.BlockRange
	hasVotedCalls   int
	votes           []ethcommon.Hash
	blockNumberHook func()
}

func NewMockBridge(head uint64, chainID int64) *MockBridge {
	return &MockBridge{
		head:      head,
		chainID:   big.NewInt(chainID),
		processed: map[ethcommon.Hash]bool{},
		voted:     map[ethcommon.Hash]bool{},
	}
}

func (m *MockBridge) AddEvent(blockNumber uint64, logIndex uint32) agreement.ChainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev := agreement.ChainEvent{
		TokenAddress: common.RandEthAddress(),
		Receiver:     common.RandEthAddress(),
		Amount:       common.RandBigInt(8),
		Symbol:       "RIF",
		Decimals:     18,
		Granularity:  big.NewInt(1),
		BlockHash:    common.RandBytes32(),
		TxHash:       common.RandBytes32(),
		LogIndex:     logIndex,
		BlockNumber:  blockNumber,
	}
	m.events = append(m.events, ev)
	return ev
}

func (m *MockBridge) BlockNumber(context.Context) (uint64, error) {
	if m.blockNumberHook != nil {
		m.blockNumberHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBlockNumber > 0 {
		m.failBlockNumber--
		return 0, errRPC
	}
	return m.head, nil
}

func (m *MockBridge) ChainID(context.Context) (*big.Int, error) {
	return m.chainID, nil
}

func (m *MockBridge) GetCrossEvents(_ context.Context, r agreement.BlockRange) ([]agreement.ChainEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getLogs = append(m.getLogs, r)
	if m.failGetLogs > 0 && r.From >= m.failGetLogsFrom {
		m.failGetLogs--
		return nil, errRPC
	}

	events := []agreement.ChainEvent{}
	for _, ev := range m.events {
		if ev.BlockNumber >= r.From && ev.BlockNumber <= r.To {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (m *MockBridge) GetTransactionId(_ context.Context, ev *agreement.ChainEvent) (ethcommon.Hash, error) {
	return TxIdOf(ev), nil
}

func (m *MockBridge) TransactionWasProcessed(_ context.Context, txId ethcommon.Hash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed[txId], nil
}

func (m *MockBridge) HasVoted(_ context.Context, txId ethcommon.Hash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasVotedCalls++
	return m.voted[txId], nil
}

func (m *MockBridge) SubmitVote(_ context.Context, ev *agreement.ChainEvent, txId ethcommon.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failVote > 0 {
		m.failVote--
		return errRPC
	}
	if txId != TxIdOf(ev) {
		return errors.New("vote for a foreign transaction id")
	}
	m.voted[txId] = true
	m.votes = append(m.votes, txId)
	return nil
}

func (m *MockBridge) Votes() []ethcommon.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ethcommon.Hash(nil), m.votes...)
}

func (m *MockBridge) GetLogsCalls() []agreement.BlockRange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]agreement.BlockRange(nil), m.getLogs...)
}

func TxIdOf(ev *agreement.ChainEvent) ethcommon.Hash {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], ev.LogIndex)
	return crypto.Keccak256Hash(ev.BlockHash[:], ev.TxHash[:], idx[:])
}

// MockCheckpoint is an in-memory checkpoint store.
type MockCheckpoint struct {
	mu sync.Mutex

	height uint64
	exists bool

	loadErr error
	saveErr error

	saves []uint64
}

func (c *MockCheckpoint) Load() (uint64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return 0, false, c.loadErr
	}
	return c.height, c.exists, nil
}

func (c *MockCheckpoint) Save(height uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.height, c.exists = height, true
	c.saves = append(c.saves, height)
	return nil
}

func (c *MockCheckpoint) Saves() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint64(nil), c.saves...)
}
