// Federator server = source chain reader + federation contract + vote sender
// + checkpoint store + scheduler + http reporter.

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/TEENet-io/bridge-federator/etherman"
	"github.com/TEENet-io/bridge-federator/ethtxmanager"
	"github.com/TEENet-io/bridge-federator/federator"
	"github.com/TEENet-io/bridge-federator/metrics"
	"github.com/TEENet-io/bridge-federator/reporter"
	"github.com/TEENet-io/bridge-federator/state"
)

type sourceBackend interface {
	ethereum.BlockNumberReader
	ethereum.ChainIDReader
	ethereum.LogFilterer
}

type destBackend interface {
	bind.ContractCaller
	bind.PendingContractCaller
	bind.ContractTransactor
	bind.DeployBackend
	ethereum.ChainIDReader
}

// FederatorServer holds the objects that consists of the federator.
type FederatorServer struct {
	Federator *federator.Federator
	Reporter  *reporter.HttpReporter
	Registry  *prometheus.Registry

	runInterval time.Duration
	fatalCh     chan error
	closers     []func()
}

// NewFederatorServer dials both chains and wires the federator.
func NewFederatorServer(ctx context.Context, cfg *FederatorConfig) (*FederatorServer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	srcClient, err := ethclient.DialContext(ctx, cfg.SourceRpcUrl)
	if err != nil {
		return nil, federator.NewError(federator.KindQuery, "dial source chain", err)
	}
	dstClient, err := ethclient.DialContext(ctx, cfg.DestRpcUrl)
	if err != nil {
		srcClient.Close()
		return nil, federator.NewError(federator.KindQuery, "dial destination chain", err)
	}

	srv, err := newFederatorServer(ctx, cfg, srcClient, dstClient)
	if err != nil {
		srcClient.Close()
		dstClient.Close()
		return nil, err
	}
	srv.closers = append(srv.closers, srcClient.Close, dstClient.Close)
	return srv, nil
}

func newFederatorServer(ctx context.Context, cfg *FederatorConfig, src sourceBackend, dst destBackend) (*FederatorServer, error) {
	key, err := etherman.StringToPrivateKey(cfg.FederatorPrivateKey)
	if err != nil {
		return nil, configErr(KEY_FEDERATOR_PRIVATE_KEY, err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	source, err := etherman.NewSource(src, &etherman.SourceConfig{
		BridgeAddress: ethcommon.HexToAddress(cfg.SourceBridgeAddr),
	})
	if err != nil {
		return nil, err
	}

	federation, err := etherman.NewFederation(dst, &etherman.FederationConfig{
		FederationAddress: ethcommon.HexToAddress(cfg.DestFederationAddr),
		From:              from,
	})
	if err != nil {
		return nil, err
	}

	sender, err := ethtxmanager.NewSender(ctx, &ethtxmanager.Config{
		ReceiptTimeout: cfg.ReceiptTimeout,
		GasMultiplier:  cfg.GasMultiplier,
	}, dst, key)
	if err != nil {
		return nil, federator.NewError(federator.KindQuery, "destination chain id", err)
	}

	checkpoint, closeCheckpoint, err := state.NewCheckpointStore(&state.Config{
		Backend:     cfg.CheckpointBackend,
		StoragePath: cfg.StoragePath,
	})
	if err != nil {
		return nil, federator.NewError(federator.KindStorage, "open checkpoint store", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		closeCheckpoint()
		return nil, err
	}

	params := federator.DefaultParams()
	params.FloorBlock = cfg.SourceFromBlock

	voter := federator.NewVoter(federation, ethtxmanager.NewVoteSubmitter(federation, sender), m)
	fed, err := federator.New(params, source, source, voter, checkpoint, m)
	if err != nil {
		closeCheckpoint()
		return nil, err
	}

	srv := &FederatorServer{
		Federator:   fed,
		Registry:    reg,
		runInterval: cfg.RunInterval,
		fatalCh:     make(chan error, 1),
		closers:     []func(){closeCheckpoint},
	}
	srv.Reporter = reporter.NewHttpReporter(cfg.HttpIp, cfg.HttpPort, fed, reg, srv.reportFatal)

	logger.WithFields(logger.Fields{
		"sourceBridge": cfg.SourceBridgeAddr,
		"sideBridge":   cfg.DestBridgeAddr,
		"federation":   cfg.DestFederationAddr,
		"federator":    from.Hex(),
		"fromBlock":    cfg.SourceFromBlock,
	}).Info("federator configured")

	return srv, nil
}

func (s *FederatorServer) reportFatal(err error) {
	select {
	case s.fatalCh <- err:
	default:
	}
}

// Close releases the clients and the checkpoint store.
func (s *FederatorServer) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Schedule runs a pass right away and then every run interval, until ctx
// is done or a pass fails fatally.
func (s *FederatorServer) Schedule(ctx context.Context) error {
	ticker := time.NewTicker(s.runInterval)
	defer ticker.Stop()

	for {
		processed, err := s.Federator.Run(ctx)
		switch {
		case err == nil:
			logger.WithField("processed", processed).Debug("federator pass finished")
		case errors.Is(err, federator.ErrPassInProgress):
			logger.Debug("skipping scheduled pass, another one is running")
		case ctx.Err() != nil:
			return nil
		default:
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case err := <-s.fatalCh:
			return err
		case <-ticker.C:
		}
	}
}

// Serve runs the scheduler and the http reporter until ctx is done or
// one of them fails.
func (s *FederatorServer) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Schedule(gctx)
	})
	g.Go(func() error {
		return s.Reporter.Serve(gctx)
	})

	return g.Wait()
}

// StartFederatorAndWait blocks until SIGINT/SIGTERM. A fatal federator
// failure terminates the process.
func StartFederatorAndWait(cfg *FederatorConfig) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewFederatorServer(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to create federator: %v", err)
	}
	defer srv.Close()

	logger.Info("federator started, press Ctrl+C to stop")
	if err := srv.Serve(ctx); err != nil {
		srv.Close()
		logger.Fatalf("federator stopped: %v", err)
	}
	logger.Info("federator stopped")
}

// RunOnce makes a single pass (with its retries) and returns its outcome.
func RunOnce(cfg *FederatorConfig) (bool, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := NewFederatorServer(ctx, cfg)
	if err != nil {
		return false, err
	}
	defer srv.Close()

	return srv.Federator.Run(ctx)
}
