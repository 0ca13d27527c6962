package ethtxmanager

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

func ErrTxReverted(txHash ethcommon.Hash) error {
	return fmt.Errorf("tx %s reverted", txHash.Hex())
}

func ErrWaitReceipt(txHash ethcommon.Hash, err error) error {
	return fmt.Errorf("waiting for receipt of tx %s: %w", txHash.Hex(), err)
}

func ErrEstimateGas(err error) error {
	return fmt.Errorf("failed to estimate gas: %w", err)
}
