package contracts

import "github.com/ethereum/go-ethereum/accounts/abi/bind"

// FederationMetaData describes the federation contract deployed on the
// destination chain. Votes are tallied per transaction id.
var FederationMetaData = &bind.MetaData{
	ABI: `[
	{
		"inputs": [
			{"internalType": "address", "name": "originalTokenAddress", "type": "address"},
			{"internalType": "address", "name": "receiver", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"},
			{"internalType": "string", "name": "symbol", "type": "string"},
			{"internalType": "bytes32", "name": "blockHash", "type": "bytes32"},
			{"internalType": "bytes32", "name": "transactionHash", "type": "bytes32"},
			{"internalType": "uint32", "name": "logIndex", "type": "uint32"},
			{"internalType": "uint8", "name": "decimals", "type": "uint8"},
			{"internalType": "uint256", "name": "granularity", "type": "uint256"}
		],
		"name": "getTransactionId",
		"outputs": [{"internalType": "bytes32", "name": "", "type": "bytes32"}],
		"stateMutability": "pure",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "bytes32", "name": "transactionId", "type": "bytes32"}],
		"name": "transactionWasProcessed",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "bytes32", "name": "transactionId", "type": "bytes32"}],
		"name": "hasVoted",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "originalTokenAddress", "type": "address"},
			{"internalType": "address", "name": "receiver", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"},
			{"internalType": "string", "name": "symbol", "type": "string"},
			{"internalType": "bytes32", "name": "blockHash", "type": "bytes32"},
			{"internalType": "bytes32", "name": "transactionHash", "type": "bytes32"},
			{"internalType": "uint32", "name": "logIndex", "type": "uint32"},
			{"internalType": "uint8", "name": "decimals", "type": "uint8"},
			{"internalType": "uint256", "name": "granularity", "type": "uint256"}
		],
		"name": "voteTransaction",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`,
}

const (
	MethodGetTransactionId        = "getTransactionId"
	MethodTransactionWasProcessed = "transactionWasProcessed"
	MethodHasVoted                = "hasVoted"
	MethodVoteTransaction         = "voteTransaction"
)
