// Package commitment implements the sealed-bid commitment scheme: a bid
// amount is bound to a 32-byte secret nonce with
// keccak256(abi.encodePacked(uint256 bidValue, bytes32 nonce)).
// The marketplace only stores and compares these hashes; nonces are
// generated client side.
package commitment

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

const NonceSize = 32

// ErrInvalidNonce is returned when a nonce is not exactly 32 bytes.
var ErrInvalidNonce = errors.New("nonce must be 32 bytes")

// Hash computes the commitment for a bid value and nonce. The bid value is
// packed as a 32-byte big-endian uint256, matching solidityPackedKeccak256
// over ['uint256', 'bytes32'].
func Hash(bidValue *big.Int, nonce [NonceSize]byte) common.Hash {
	packed := math.U256Bytes(new(big.Int).Set(bidValue))
	return crypto.Keccak256Hash(packed, nonce[:])
}

// GenerateNonce returns 32 bytes of cryptographically secure randomness.
// It exists for clients and tests; the engine never calls it on a
// bidder's behalf.
func GenerateNonce() ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nonce, err
	}
	return nonce, nil
}

// ParseNonce decodes a 0x-prefixed hex nonce and enforces the 32-byte length.
func ParseNonce(s string) ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	b, err := hexutil.Decode(s)
	if err != nil {
		return nonce, err
	}
	if len(b) != NonceSize {
		return nonce, ErrInvalidNonce
	}
	copy(nonce[:], b)
	return nonce, nil
}
