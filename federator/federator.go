// Package federator drives the relay-and-vote passes: plan the confirmed
// block ranges, fetch Cross events, vote where still needed, checkpoint.
package federator

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/bridge-federator/agreement"
	"github.com/TEENet-io/bridge-federator/chainsync"
	"github.com/TEENet-io/bridge-federator/metrics"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateSuccess
	StateFailedRetryable
	StateFailedFatal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateFailedRetryable:
		return "failed_retryable"
	case StateFailedFatal:
		return "failed_fatal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Federator struct {
	params     *Params
	chain      agreement.SourceChain
	source     agreement.EventSource
	voter      *Voter
	checkpoint agreement.CheckpointStore
	metrics    *metrics.Metrics

	sleep func(ctx context.Context, d time.Duration) error

	// held for the duration of a pass, single writer of the checkpoint
	passMu sync.Mutex

	mu    sync.RWMutex
	state State
}

func New(
	params *Params,
	chain agreement.SourceChain,
	source agreement.EventSource,
	voter *Voter,
	checkpoint agreement.CheckpointStore,
	m *metrics.Metrics,
) (*Federator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Federator{
		params:     params,
		chain:      chain,
		source:     source,
		voter:      voter,
		checkpoint: checkpoint,
		metrics:    m,
		sleep:      sleepCtx,
		state:      StateIdle,
	}, nil
}

func (f *Federator) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *Federator) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// RunOnce makes a single attempt. The bool is false when there was
// nothing to process.
func (f *Federator) RunOnce(ctx context.Context) (bool, error) {
	if !f.passMu.TryLock() {
		return false, ErrPassInProgress
	}
	defer f.passMu.Unlock()

	return f.attempt(ctx)
}

// Run makes up to RetryAttempts attempts, sleeping RetryInterval between
// them. Exhaustion, or a failure that is not retryable, is returned as a
// *FatalError. Cancellation of ctx is returned as is.
func (f *Federator) Run(ctx context.Context) (bool, error) {
	if !f.passMu.TryLock() {
		return false, ErrPassInProgress
	}
	defer f.passMu.Unlock()

	maxAttempts := f.params.RetryAttempts
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		processed, err := f.attempt(ctx)
		if err == nil {
			return processed, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if !KindOf(err).Retryable() {
			f.metrics.Fatal()
			return false, &FatalError{Attempts: attempt, Err: err}
		}

		lastErr = err
		logger.WithFields(logger.Fields{
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
		}).WithError(err).Error("federator pass failed")

		if attempt < maxAttempts {
			if err := f.sleep(ctx, f.params.RetryInterval); err != nil {
				f.setState(StateIdle)
				return false, err
			}
		}
	}

	f.setState(StateFailedFatal)
	f.metrics.Fatal()
	return false, &FatalError{Attempts: maxAttempts, Err: lastErr}
}

// attempt runs one pass and moves the state machine accordingly.
func (f *Federator) attempt(ctx context.Context) (bool, error) {
	f.setState(StateRunning)
	start := time.Now()

	processed, err := f.pass(ctx)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		f.setState(StateSuccess)
		status := metrics.PassSuccess
		if !processed {
			status = metrics.PassNoWork
		}
		f.metrics.PassFinished(status, elapsed)
	case ctx.Err() != nil:
		f.setState(StateIdle)
		f.metrics.PassFinished(metrics.PassCanceled, elapsed)
		return false, ctx.Err()
	case KindOf(err).Retryable():
		f.setState(StateFailedRetryable)
		f.metrics.PassFinished(metrics.PassRetry, elapsed)
	default:
		f.setState(StateFailedFatal)
		f.metrics.PassFinished(metrics.PassFatal, elapsed)
	}

	return processed, err
}

func (f *Federator) pass(ctx context.Context) (bool, error) {
	current, err := f.chain.BlockNumber(ctx)
	if err != nil {
		return false, queryErr("eth_blockNumber", err)
	}
	chainID, err := f.chain.ChainID(ctx)
	if err != nil {
		return false, queryErr("eth_chainId", err)
	}

	confirmations := chainsync.Confirmations(chainID)
	safe, ok := chainsync.SafeHeight(current, confirmations)
	if !ok {
		logger.WithFields(logger.Fields{
			"current":       current,
			"confirmations": confirmations,
		}).Info("chain is not deeper than the confirmation depth")
		return false, nil
	}
	logger.WithField("toBlock", safe).Info("running to block")

	checkpoint := f.loadCheckpoint()
	ranges, err := chainsync.Plan(current, confirmations, checkpoint, f.params.FloorBlock, f.params.PageSize)
	if err != nil {
		return false, configErr("plan", err)
	}
	if len(ranges) == 0 {
		logger.WithFields(logger.Fields{
			"toBlock":   safe,
			"lastBlock": max(checkpoint, f.params.FloorBlock),
		}).Warn("current chain height is the same or lesser than the last block processed")
		return false, nil
	}

	logger.WithFields(logger.Fields{
		"fromBlock": ranges[0].From,
		"pages":     len(ranges),
		"pageSize":  f.params.PageSize,
	}).Debug("running from block")

	for i, r := range ranges {
		logger.Debugf("page %d getting events from block %d to %d", i+1, r.From, r.To)

		events, err := f.source.GetCrossEvents(ctx, r)
		if err != nil {
			return false, queryErr(fmt.Sprintf("getLogs %v", r), err)
		}
		logger.Infof("found %d logs", len(events))
		f.metrics.EventsFetched(len(events))

		stats, err := f.voter.ProcessEvents(ctx, r, events)
		if err != nil {
			return false, err
		}

		if err := f.checkpoint.Save(r.To); err != nil {
			return false, storageErr(fmt.Sprintf("save checkpoint %d", r.To), err)
		}
		f.metrics.CheckpointSaved(r.To)

		logger.WithFields(logger.Fields{
			"range":        r.String(),
			"voted":        stats.Voted,
			"processed":    stats.Processed,
			"alreadyVoted": stats.AlreadyVoted,
		}).Debug("range done")
	}

	return true, nil
}

// loadCheckpoint never fails: an unreadable checkpoint falls back to the floor.
func (f *Federator) loadCheckpoint() uint64 {
	height, ok, err := f.checkpoint.Load()
	if err != nil {
		logger.WithError(err).Warnf("failed to read checkpoint, starting from floor block %d", f.params.FloorBlock)
		return 0
	}
	if !ok {
		return 0
	}
	return height
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
