package fru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum8(t *testing.T) {
	require.Equal(t, byte(0), checksum8(nil))
	require.Equal(t, byte(6), checksum8([]byte{1, 2, 3}))
	require.Equal(t, byte(0), checksum8([]byte{0xff, 0x01}))
}

func TestZeroSumRoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x7f}
	sum := zeroSum(data)
	require.True(t, checksumValid(append(append([]byte{}, data...), sum)))
}

func TestChecksumValid(t *testing.T) {
	require.True(t, checksumValid([]byte{0x00}))
	require.False(t, checksumValid([]byte{0x01}))
}
