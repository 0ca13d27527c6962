// ABI definitions of the bridge contracts. Only the parts the federator
// touches are declared.
package contracts

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// BridgeMetaData describes the bridge deployed on the source chain.
var BridgeMetaData = &bind.MetaData{
	ABI: `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "_tokenAddress", "type": "address"},
			{"indexed": true, "internalType": "address", "name": "_to", "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "_amount", "type": "uint256"},
			{"indexed": false, "internalType": "string", "name": "_symbol", "type": "string"},
			{"indexed": false, "internalType": "bytes", "name": "_userData", "type": "bytes"},
			{"indexed": false, "internalType": "uint8", "name": "_decimals", "type": "uint8"},
			{"indexed": false, "internalType": "uint256", "name": "_granularity", "type": "uint256"}
		],
		"name": "Cross",
		"type": "event"
	}
]`,
}

const CrossEventName = "Cross"
