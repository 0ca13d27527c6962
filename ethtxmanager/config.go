package ethtxmanager

import (
	"errors"
	"time"
)

var ErrInvalidGasMultiplier = errors.New("gas multiplier must be at least 1")

type Config struct {
	// Timeout on waiting for the receipt of a sent tx, zero means the
	// sender returns once the node accepted the tx
	ReceiptTimeout time.Duration

	// Multiplier applied to eth_estimateGas
	GasMultiplier float64
}

func DefaultConfig() *Config {
	return &Config{
		ReceiptTimeout: 2 * time.Minute,
		GasMultiplier:  1.2,
	}
}

func (cfg *Config) Validate() error {
	if cfg.GasMultiplier < 1 {
		return ErrInvalidGasMultiplier
	}
	return nil
}
