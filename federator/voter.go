package federator

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/bridge-federator/agreement"
	"github.com/TEENet-io/bridge-federator/metrics"
)

// VoteStats counts the decisions taken over one range.
type VoteStats struct {
	Events       int
	Voted        int
	Processed    int
	AlreadyVoted int
}

// Voter decides, event by event, whether this federator still has to
// vote, and votes.
type Voter struct {
	federation agreement.Federation
	submitter  agreement.VoteSubmitter
	metrics    *metrics.Metrics
}

func NewVoter(federation agreement.Federation, submitter agreement.VoteSubmitter, m *metrics.Metrics) *Voter {
	return &Voter{
		federation: federation,
		submitter:  submitter,
		metrics:    m,
	}
}

// ProcessEvents handles the events of r in order. The first failure
// aborts the range, nothing is skipped on error.
func (v *Voter) ProcessEvents(ctx context.Context, r agreement.BlockRange, events []agreement.ChainEvent) (VoteStats, error) {
	stats := VoteStats{Events: len(events)}

	for i := range events {
		ev := &events[i]
		newLogger := logger.WithFields(logger.Fields{
			"block":    ev.BlockNumber,
			"tx":       ev.TxHash.Hex(),
			"logIndex": ev.LogIndex,
			"token":    ev.Symbol,
		})
		newLogger.WithFields(logger.Fields{
			"amount":   ev.Amount,
			"receiver": ev.Receiver.Hex(),
		}).Info("processing Cross event")

		op := fmt.Sprintf("range %v tx %s logIndex %d", r, ev.TxHash.Hex(), ev.LogIndex)

		txId, err := v.federation.GetTransactionId(ctx, ev)
		if err != nil {
			return stats, queryErr("getTransactionId "+op, err)
		}
		newLogger = newLogger.WithField("txId", txId.Hex())
		newLogger.Debug("got transaction id")

		processed, err := v.federation.TransactionWasProcessed(ctx, txId)
		if err != nil {
			return stats, queryErr("transactionWasProcessed "+op, err)
		}
		if processed {
			newLogger.Debug("transaction was already processed")
			stats.Processed++
			v.metrics.Vote(metrics.VoteProcessed)
			continue
		}

		voted, err := v.federation.HasVoted(ctx, txId)
		if err != nil {
			return stats, queryErr("hasVoted "+op, err)
		}
		if voted {
			newLogger.Debug("transaction has already been voted by us")
			stats.AlreadyVoted++
			v.metrics.Vote(metrics.VoteAlreadyVoted)
			continue
		}

		newLogger.Info("voting transaction")
		if err := v.submitter.SubmitVote(ctx, ev, txId); err != nil {
			return stats, submissionErr("voteTransaction "+op, err)
		}
		newLogger.Info("voted transaction")
		stats.Voted++
		v.metrics.Vote(metrics.VoteSent)
	}

	return stats, nil
}
