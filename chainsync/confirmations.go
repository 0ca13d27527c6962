package chainsync

import "math/big"

// Confirmation depth per chain id. A block is considered safe from
// reorganization once it is this many blocks below the head.
var ConfirmationsByChainID = map[uint64]uint64{
	1:  5760, // ethereum mainnet, ~24h
	56: 2880, // bsc mainnet, ~24h
	97: 10,   // bsc testnet
	42: 10,   // kovan
}

// Confirmations returns the confirmation depth of the chain.
// Unknown chains (ganache, regtest, simulated backends) need none.
func Confirmations(chainID *big.Int) uint64 {
	if chainID == nil || !chainID.IsUint64() {
		return 0
	}
	return ConfirmationsByChainID[chainID.Uint64()]
}
