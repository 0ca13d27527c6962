package common

import (
	"crypto/rand"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Trim 0x or 0X prefix off the string.
func Trim0xPrefix(str string) string {
	s := strings.TrimPrefix(str, "0x")
	return strings.TrimPrefix(s, "0X")
}

func Prepend0xPrefix(str string) string {
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		return str
	}
	return "0x" + str
}

// RandBytes32 generates [32]byte with random values
func RandBytes32() [32]byte {
	var b [32]byte
	n, err := rand.Read(b[:])

	if err != nil {
		return [32]byte{}
	}
	if n != 32 {
		return [32]byte{}
	}

	return b
}

func RandBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil
	}
	return b
}

// RandEthAddress returns a random, non zero address.
func RandEthAddress() ethcommon.Address {
	for {
		addr := ethcommon.BytesToAddress(RandBytes(ethcommon.AddressLength))
		if addr != (ethcommon.Address{}) {
			return addr
		}
	}
}

// RandBigInt returns a positive random integer of at most byteNum bytes.
func RandBigInt(byteNum int) *big.Int {
	for {
		v := new(big.Int).SetBytes(RandBytes(byteNum))
		if v.Sign() > 0 {
			return v
		}
	}
}

// Shorten shortens a hex string so that both sides have n characters and
// the rest is replaced with "..."
func Shorten(hexStr string, n int) string {
	str := Trim0xPrefix(hexStr)

	if len(str) <= n*2 {
		return Prepend0xPrefix(str)
	}
	return Prepend0xPrefix(str[:n] + "..." + str[len(str)-n:])
}

// IsHexString reports whether s, with or without 0x, is a non empty string
// of hex digits.
func IsHexString(s string) bool {
	s = Trim0xPrefix(s)
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsAddress is ethcommon.IsHexAddress without accepting the zero address.
func IsAddress(s string) bool {
	return ethcommon.IsHexAddress(s) && ethcommon.HexToAddress(s) != (ethcommon.Address{})
}
