package fru

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFruRejectsBadTotalLength(t *testing.T) {
	_, err := NewFru(10, nil, nil)
	require.Error(t, err)
}

func TestFruBuildWriteDecodeRoundTrip(t *testing.T) {
	f, err := NewFru(64, nil, NewOEMRegistry())
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaChassisInfo, 16))
	require.NoError(t, f.AddArea(AreaBoardInfo, 24))
	require.NoError(t, f.Chassis.SetPartNumber(TypeASCIIOrUnicode, []byte("PN-1")))
	require.NoError(t, f.Board.SetManufacturer(TypeASCIIOrUnicode, []byte("Acme")))
	require.NoError(t, f.Validate())

	buf := make([]byte, 64)
	ranges, err := f.Write(buf)
	require.NoError(t, err)
	require.NotEmpty(t, ranges)
	f.WriteComplete()

	decoded, err := Decode(buf, nil, NewOEMRegistry())
	require.NoError(t, err)
	require.NotNil(t, decoded.Chassis)
	require.NotNil(t, decoded.Board)

	pn, err := decoded.Chassis.Strings.Get("test", chassisPartNumber, false)
	require.NoError(t, err)
	require.Equal(t, []byte("PN-1"), pn.Payload)
}

func TestFruWriteIsIdempotentBeforeWriteComplete(t *testing.T) {
	f, err := NewFru(32, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaChassisInfo, 16))

	buf := make([]byte, 32)
	first, err := f.Write(buf)
	require.NoError(t, err)
	second, err := f.Write(buf)
	require.NoError(t, err)
	require.Equal(t, first, second)

	f.WriteComplete()
	third, err := f.Write(buf)
	require.NoError(t, err)
	require.Empty(t, third)
}

func TestFruWriteRejectsUndersizedBuffer(t *testing.T) {
	f, err := NewFru(32, nil, nil)
	require.NoError(t, err)
	_, err = f.Write(make([]byte, 8))
	require.Error(t, err)
}

func TestFruCloseRejectsWithOpenNodes(t *testing.T) {
	f, err := NewFru(32, nil, nil)
	require.NoError(t, err)
	node := f.GetRootNode()

	err = f.Close()
	require.Error(t, err)

	node.Close()
	require.NoError(t, f.Close())
}

func TestFruMarshalJSONProducesFieldTree(t *testing.T) {
	f, err := NewFru(32, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaChassisInfo, 16))
	require.NoError(t, f.Chassis.SetPartNumber(TypeASCIIOrUnicode, []byte("PN-9")))

	raw, err := f.MarshalJSON()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "chassis_info_part_number")
}

// TestDecodePreservesSelfDeclaredLengthAcrossPadding builds a blob by
// hand with an 8-byte gap of unclaimed padding between the end of the
// Chassis Info area's own declared length and the start of the Board
// Info area. Chassis and Board both carry a self-declared length byte
// on the wire; Decode must report each area's own declared length, not
// the larger gap to its neighbor.
func TestDecodePreservesSelfDeclaredLengthAcrossPadding(t *testing.T) {
	buf := make([]byte, 40)

	// Chassis Info area at offset 8, declared length 8 (the minimum
	// representable unit), though its neighbor starts 16 bytes later.
	chassis := buf[8:16]
	chassis[0] = 1    // version
	chassis[1] = 1    // length / 8
	chassis[2] = 0    // chassis type
	chassis[3] = 0xC0 // empty part number
	chassis[4] = 0xC0 // empty serial number
	chassis[5] = 0xC1 // terminator
	chassis[6] = 0    // padding before the checksum byte
	chassis[7] = zeroSum(chassis[:7])

	// Board Info area at offset 24, declared length 16.
	board := buf[24:40]
	board[0] = 1  // version
	board[1] = 2  // length / 8
	board[2] = 25 // English
	board[3], board[4], board[5] = 0, 0, 0
	board[6] = 0xC0  // empty manufacturer
	board[7] = 0xC0  // empty product name
	board[8] = 0xC0  // empty serial number
	board[9] = 0xC0  // empty part number
	board[10] = 0xC0 // empty FRU file ID
	board[11] = 0xC1 // terminator
	board[12], board[13], board[14] = 0, 0, 0
	board[15] = zeroSum(board[:15])

	hdr := buf[:commonHeaderLen]
	hdr[0] = commonHeaderFormatVersion
	hdr[1+int(AreaChassisInfo)] = 8 / 8
	hdr[1+int(AreaBoardInfo)] = 24 / 8
	hdr[7] = zeroSum(hdr[:7])

	f, err := Decode(buf, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, f.Chassis)
	require.NotNil(t, f.Board)

	length, err := f.GetAreaLength(AreaChassisInfo)
	require.NoError(t, err)
	require.Equal(t, 8, length, "chassis must report its own declared length, not the gap to the next area")

	length, err = f.GetAreaLength(AreaBoardInfo)
	require.NoError(t, err)
	require.Equal(t, 16, length)
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = commonHeaderFormatVersion
	buf[7] = 0xFE // deliberately wrong checksum (0xFF would be the valid one)
	_, err := Decode(buf, nil, nil)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeBadFormat, code)
}
