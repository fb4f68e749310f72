package fru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrToIndexAndIndexToStrRoundTrip(t *testing.T) {
	idx := StrToIndex("board_info_mfg_time")
	require.NotEqual(t, -1, idx)
	require.Equal(t, "board_info_mfg_time", IndexToStr(idx))

	require.Equal(t, -1, StrToIndex("not_a_real_field"))
	require.Equal(t, "", IndexToStr(len(fieldTable)+10))
}

func TestGetRootNodeSkipsFieldsForAbsentAreas(t *testing.T) {
	f, err := NewFru(32, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaChassisInfo, 16))
	require.NoError(t, f.Chassis.SetPartNumber(TypeASCIIOrUnicode, []byte("PN-7")))

	root := f.GetRootNode()
	defer root.Close()

	found := false
	for i := 0; ; i++ {
		name, kind, value, sub, err := root.GetField(i)
		if err != nil {
			break
		}
		if sub != nil {
			sub.Close()
		}
		if name == "chassis_info_part_number" && kind == FieldASCII {
			require.Equal(t, []byte("PN-7"), value)
			found = true
		}
	}
	require.True(t, found, "expected to find chassis_info_part_number despite other areas being absent")
}

func TestCustomStringArrayNodeIteratesOrdinals(t *testing.T) {
	f, err := NewFru(64, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaChassisInfo, 32))
	require.NoError(t, f.Chassis.SetCustom(0, TypeASCIIOrUnicode, []byte("one")))
	require.NoError(t, f.Chassis.SetCustom(1, TypeASCIIOrUnicode, []byte("two")))

	root := f.GetRootNode()
	defer root.Close()

	idx := StrToIndex("chassis_info_custom")
	require.NotEqual(t, -1, idx)

	_, kind, _, sub, err := root.GetField(idx)
	require.NoError(t, err)
	require.Equal(t, FieldSubNode, kind)
	require.NotNil(t, sub)
	defer sub.Close()

	_, _, v0, _, err := sub.GetField(0)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), v0)

	_, _, v1, _, err := sub.GetField(1)
	require.NoError(t, err)
	require.Equal(t, []byte("two"), v1)

	_, _, _, _, err = sub.GetField(2)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeNotFound, code)
}

func TestMultiRecordArrayNodeWithOEMDecode(t *testing.T) {
	f, err := NewFru(64, nil, NewOEMRegistry())
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaMultiRecord, 0))
	dcOutput := []byte{
		0x02,
		0xE8, 0x03,
		0x38, 0xFF,
		0xC8, 0x00,
		0x0A, 0x00,
		0x00, 0x00,
		0xE8, 0x03,
	}
	require.NoError(t, f.MultiRecords.SetMultiRecord(0, multiRecordTypeDCOutput, 2, dcOutput))

	root := f.GetRootNode()
	defer root.Close()

	idx := len(fieldTable) // "multirecords" sentinel index
	name, kind, _, mrArray, err := root.GetField(idx)
	require.NoError(t, err)
	require.Equal(t, "multirecords", name)
	require.Equal(t, FieldSubNode, kind)
	defer mrArray.Close()

	recName, recKind, _, entry, err := mrArray.GetField(0)
	require.NoError(t, err)
	require.Equal(t, "record_0", recName)
	require.Equal(t, FieldSubNode, recKind)
	defer entry.Close()

	_, typeKind, typeVal, _, err := entry.GetField(0)
	require.NoError(t, err)
	require.Equal(t, FieldUint, typeKind)
	require.Equal(t, int(multiRecordTypeDCOutput), typeVal)

	decodedName, decodedKind, _, decoded, err := entry.GetField(3)
	require.NoError(t, err)
	require.Equal(t, "DC Output", decodedName)
	require.Equal(t, FieldSubNode, decodedKind)
	defer decoded.Close()

	fieldName, _, outputNumber, _, err := decoded.GetField(0)
	require.NoError(t, err)
	require.Equal(t, "output_number", fieldName)
	require.Equal(t, 2, outputNumber)
}

func TestMultiRecordEntryNodeReportsFailedOEMDecodeAsNotFound(t *testing.T) {
	f, err := NewFru(64, nil, NewOEMRegistry())
	require.NoError(t, err)
	require.NoError(t, f.AddArea(AreaMultiRecord, 0))
	// A 2-byte payload is shorter than the 3-byte manufacturer id GetRoot
	// reads first, so the lookup errors before any decoder runs.
	require.NoError(t, f.MultiRecords.SetMultiRecord(0, multiRecordTypeDCOutput, 2, []byte{0x00, 0x01}))

	root := f.GetRootNode()
	defer root.Close()

	_, _, _, mrArray, err := root.GetField(len(fieldTable))
	require.NoError(t, err)
	defer mrArray.Close()

	_, _, _, entry, err := mrArray.GetField(0)
	require.NoError(t, err)
	defer entry.Close()

	_, _, _, _, err = entry.GetField(3)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeNotFound, code)
}
