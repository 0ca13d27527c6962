package etherman

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/TEENet-io/bridge-federator/common"
)

var ErrEmptyPrivateKey = errors.New("private key is empty")

// StringToPrivateKey parses a hex encoded secp256k1 key, with or without 0x.
func StringToPrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = common.Trim0xPrefix(s)
	if s == "" {
		return nil, ErrEmptyPrivateKey
	}
	return crypto.HexToECDSA(s)
}
