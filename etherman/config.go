package etherman

import "github.com/ethereum/go-ethereum/common"

type SourceConfig struct {
	// BridgeAddress is the bridge contract emitting Cross events
	BridgeAddress common.Address
}

type FederationConfig struct {
	// FederationAddress is the federation contract collecting votes
	FederationAddress common.Address

	// From is the federator account, hasVoted() is evaluated for it
	From common.Address
}
