package fru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOEMRegistryLookupIPMITypeIgnoresManufacturer(t *testing.T) {
	r := NewOEMRegistry()
	fn, ok := r.Lookup(0xDEADBE, multiRecordTypeDCOutput)
	require.True(t, ok)
	require.NotNil(t, fn)
}

func TestOEMRegistryLookupOEMTypeRequiresExactMatch(t *testing.T) {
	r := NewOEMRegistry()
	const mfg = 0x00112233 & 0xFFFFFF
	r.Register(mfg, 0xC5, func(f *Fru, manufacturerID uint32, typeID byte, payload []byte) (string, *Node, error) {
		return "custom", newStaticNode(nil), nil
	})

	_, ok := r.Lookup(mfg+1, 0xC5)
	require.False(t, ok)

	fn, ok := r.Lookup(mfg, 0xC5)
	require.True(t, ok)
	require.NotNil(t, fn)
}

func TestOEMRegistryDeregister(t *testing.T) {
	r := NewOEMRegistry()
	r.Deregister(0, multiRecordTypePowerSupply)
	_, ok := r.Lookup(0, multiRecordTypePowerSupply)
	require.False(t, ok)
}

func TestOEMRegistryGetRootRejectsShortPayload(t *testing.T) {
	r := NewOEMRegistry()
	_, _, err := r.GetRoot(nil, multiRecordTypeDCOutput, []byte{0x01, 0x02})
	require.Error(t, err)
}

func TestOEMRegistryGetRootNoMatchReturnsNilNode(t *testing.T) {
	r := NewOEMRegistry()
	name, node, err := r.GetRoot(nil, 0xC7, []byte{0x00, 0x00, 0x00, 0x01})
	require.NoError(t, err)
	require.Empty(t, name)
	require.Nil(t, node)
}

func TestDecodeDCOutput(t *testing.T) {
	payload := []byte{
		0x02,       // output number 2, not standby
		0xE8, 0x03, // nominal voltage 10.00V (1000 / 100)
		0x38, 0xFF, // max negative deviation -2.00V (-200 / 100)
		0xC8, 0x00, // max positive deviation 2.00V
		0x0A, 0x00, // ripple 0.010V
		0x00, 0x00, // min current 0A
		0xE8, 0x03, // max current 1.000A (1000 / 1000)
	}
	name, node, err := decodeDCOutput(nil, 0, multiRecordTypeDCOutput, payload)
	require.NoError(t, err)
	require.Equal(t, "DC Output", name)
	_, _, outputNumber, _, err := node.GetField(0)
	require.NoError(t, err)
	require.Equal(t, 2, outputNumber)
}

func TestDecodePowerSupplyInfoRequiresMinimumLength(t *testing.T) {
	_, _, err := decodePowerSupplyInfo(nil, 0, multiRecordTypePowerSupply, []byte{0x01, 0x02})
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeInvalidArgument, code)
}

func TestCombinedWattageVoltage(t *testing.T) {
	require.Equal(t, 12.0, combinedWattageVoltage(0))
	require.Equal(t, -12.0, combinedWattageVoltage(1))
	require.Equal(t, 5.0, combinedWattageVoltage(2))
	require.Equal(t, 3.3, combinedWattageVoltage(3))
	require.Equal(t, 0.0, combinedWattageVoltage(9))
}
