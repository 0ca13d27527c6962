package ethtxmanager

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	logger "github.com/sirupsen/logrus"
)

type senderClient interface {
	bind.ContractTransactor
	bind.DeployBackend
	ethereum.ChainIDReader
}

// Sender sends legacy transactions signed by a single key.
type Sender struct {
	cfg     *Config
	client  senderClient
	key     *ecdsa.PrivateKey
	from    ethcommon.Address
	chainID *big.Int
	signer  types.Signer

	// serializes nonce assignment
	mu sync.Mutex
}

func NewSender(ctx context.Context, cfg *Config, client senderClient, key *ecdsa.PrivateKey) (*Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	return &Sender{
		cfg:     cfg,
		client:  client,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		signer:  types.LatestSignerForChainID(chainID),
	}, nil
}

func (s *Sender) From() ethcommon.Address {
	return s.from
}

// SendTransaction returns the hash of the sent tx. With a receipt timeout
// configured it also waits for the tx to be mined and fails if it reverted.
func (s *Sender) SendTransaction(ctx context.Context, to ethcommon.Address, data []byte, value *big.Int) (ethcommon.Hash, error) {
	if value == nil {
		value = new(big.Int)
	}

	tx, err := s.signAndSend(ctx, to, data, value)
	if err != nil {
		return ethcommon.Hash{}, err
	}

	newLogger := logger.WithFields(logger.Fields{
		"txHash": tx.Hash().Hex(),
		"to":     to.Hex(),
		"nonce":  tx.Nonce(),
	})
	newLogger.Debug("tx sent")

	if s.cfg.ReceiptTimeout == 0 {
		return tx.Hash(), nil
	}

	wctx, cancel := context.WithTimeout(ctx, s.cfg.ReceiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(wctx, s.client, tx)
	if err != nil {
		return tx.Hash(), ErrWaitReceipt(tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		newLogger.Errorf("tx reverted in block %v", receipt.BlockNumber)
		return tx.Hash(), ErrTxReverted(tx.Hash())
	}

	newLogger.WithField("block", receipt.BlockNumber).Debug("tx mined")
	return tx.Hash(), nil
}

func (s *Sender) signAndSend(ctx context.Context, to ethcommon.Address, data []byte, value *big.Int) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, err
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gas, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, ErrEstimateGas(err)
	}
	gas = uint64(float64(gas) * s.cfg.GasMultiplier)

	tx, err := types.SignNewTx(s.key, s.signer, &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	if err != nil {
		return nil, err
	}

	if err := s.client.SendTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
