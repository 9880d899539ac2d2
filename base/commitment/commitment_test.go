package commitment

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	req := require.New(t)

	nonce := [NonceSize]byte{0x01, 0x02}

	h1 := Hash(big.NewInt(50), nonce)
	h2 := Hash(big.NewInt(50), nonce)
	req.Equal(h1, h2)

	// either input changing changes the hash
	req.NotEqual(h1, Hash(big.NewInt(51), nonce))
	other := nonce
	other[31] = 0xff
	req.NotEqual(h1, Hash(big.NewInt(50), other))

	// the value is packed as a 32-byte uint256, so numerically equal
	// values commit identically regardless of representation
	big50, ok := new(big.Int).SetString("50", 10)
	req.True(ok)
	req.Equal(h1, Hash(big50, nonce))
}

func TestGenerateNonce(t *testing.T) {
	req := require.New(t)

	n1, err := GenerateNonce()
	req.NoError(err)
	n2, err := GenerateNonce()
	req.NoError(err)
	req.NotEqual(n1, n2)
}

func TestParseNonce(t *testing.T) {
	req := require.New(t)

	n, err := GenerateNonce()
	req.NoError(err)

	parsed, err := ParseNonce(hexutil.Encode(n[:]))
	req.NoError(err)
	req.Equal(n, parsed)

	_, err = ParseNonce("0x0102")
	req.ErrorIs(err, ErrInvalidNonce)

	_, err = ParseNonce("not hex")
	req.Error(err)
}
