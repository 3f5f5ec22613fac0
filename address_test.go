package headlong

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAddressEIP55Vector(t *testing.T) {
	v, ok := new(big.Int).SetString("52908400098527886E0F7030069857D2E4169EE7"[:40], 16)
	require.True(t, ok)
	got, err := FormatAddress(v)
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", got)
}

func TestWrapAddressValidChecksum(t *testing.T) {
	v, err := WrapAddress("0x52908400098527886E0F7030069857D2E4169EE7")
	require.NoError(t, err)
	back, err := FormatAddress(v)
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", back)
}

func TestWrapAddressLowercaseMismatch(t *testing.T) {
	lower := "0x" + strings.ToLower("52908400098527886E0F7030069857D2E4169EE7")
	_, err := WrapAddress(lower)
	assert.ErrorIs(t, err, ChecksumMismatch)
}

func TestWrapAddressRejectsBadShape(t *testing.T) {
	_, err := WrapAddress("0x1234")
	assert.ErrorIs(t, err, InvalidHex)
	_, err = WrapAddress("0x" + strings.Repeat("g", 40))
	assert.ErrorIs(t, err, InvalidHex)
}

func TestAddressRoundTripRandomValues(t *testing.T) {
	vals := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1)),
		big.NewInt(0xdeadbeef),
	}
	for _, v := range vals {
		s, err := FormatAddress(v)
		require.NoError(t, err)
		back, err := WrapAddress(s)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Cmp(back))
	}
}

func TestFormatAddressOutOfRange(t *testing.T) {
	_, err := FormatAddress(new(big.Int).Lsh(big.NewInt(1), 160))
	assert.ErrorIs(t, err, InvalidRange)
	_, err = FormatAddress(big.NewInt(-1))
	assert.ErrorIs(t, err, InvalidRange)
}
