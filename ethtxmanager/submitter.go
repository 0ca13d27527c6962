package ethtxmanager

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/bridge-federator/agreement"
	"github.com/TEENet-io/bridge-federator/common"
)

// VoteSubmitter sends voteTransaction calls to the federation contract.
type VoteSubmitter struct {
	encoder VoteEncoder
	sender  TxSender
}

func NewVoteSubmitter(encoder VoteEncoder, sender TxSender) *VoteSubmitter {
	return &VoteSubmitter{
		encoder: encoder,
		sender:  sender,
	}
}

func (vs *VoteSubmitter) SubmitVote(ctx context.Context, ev *agreement.ChainEvent, txId ethcommon.Hash) error {
	data, err := vs.encoder.PackVoteTransaction(ev)
	if err != nil {
		return err
	}

	txHash, err := vs.sender.SendTransaction(ctx, vs.encoder.Address(), data, nil)
	if err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"txId":   common.Shorten(txId.Hex(), 8),
		"txHash": txHash.Hex(),
	}).Info("vote sent")
	return nil
}
