package fru

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStringArrayHasEmptyFixedFields(t *testing.T) {
	sa := NewStringArray(2, 3)
	require.Len(t, sa.Entries, 2)
	require.Equal(t, 0, sa.CustomCount())
	e, err := sa.Get("test", 0, false)
	require.NoError(t, err)
	require.Equal(t, 3, e.Offset)
	require.Equal(t, 1, e.RawLen)
}

func TestStringArraySetFixedShiftsFollowingOffsets(t *testing.T) {
	sa := NewStringArray(2, 3)
	_, err := sa.Set("test", 0, false, TypeASCIIOrUnicode, []byte("hello"), false, 100)
	require.NoError(t, err)

	e1, err := sa.Get("test", 1, false)
	require.NoError(t, err)
	// field 0 grew from 1 (empty) to 6 (prefix + 5 bytes), so field 1 shifts by 5.
	require.Equal(t, 3+6, e1.Offset)
}

func TestStringArraySetOutOfSpace(t *testing.T) {
	sa := NewStringArray(1, 3)
	_, err := sa.Set("test", 0, false, TypeASCIIOrUnicode, []byte("this is too long for the budget"), false, 2)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeOutOfSpace, code)
	// array left unchanged on error
	e, err := sa.Get("test", 0, false)
	require.NoError(t, err)
	require.Equal(t, 1, e.RawLen)
}

func TestStringArrayAppendAndDeleteCustom(t *testing.T) {
	sa := NewStringArray(1, 3)
	diff, err := sa.Set("test", 0, true, TypeASCIIOrUnicode, []byte("first"), false, 100)
	require.NoError(t, err)
	require.Equal(t, 6, diff)
	require.Equal(t, 1, sa.CustomCount())

	diff, err = sa.Set("test", 1, true, TypeASCIIOrUnicode, []byte("second"), false, 100)
	require.NoError(t, err)
	require.Equal(t, 7, diff)
	require.Equal(t, 2, sa.CustomCount())

	diff, err = sa.Set("test", 0, true, 0, nil, false, 100)
	require.NoError(t, err)
	require.Equal(t, -6, diff)
	require.Equal(t, 1, sa.CustomCount())

	remaining, err := sa.Get("test", 0, true)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), remaining.Payload)
}

func TestStringArrayDeleteCustomOutOfRange(t *testing.T) {
	sa := NewStringArray(1, 3)
	_, err := sa.Set("test", 0, true, 0, nil, false, 100)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeNotFound, code)
}

func TestDecodeStringArrayRequiresAllFixedFields(t *testing.T) {
	// Terminator immediately after the fixed-field start, with 0 fixed
	// fields actually present though 2 are required.
	area := append([]byte{1, 1, 0}, terminatorByte, 0x00)
	_, _, err := DecodeStringArray("test", area, 2, 3, func(int) bool { return false })
	require.Error(t, err)
}

func TestStringArrayEncodeIntoReusesUnchangedRaw(t *testing.T) {
	sa := NewStringArray(1, 3)
	_, err := sa.Set("test", 0, false, TypeASCIIOrUnicode, []byte("fixed"), false, 100)
	require.NoError(t, err)
	sa.clearChanged()

	buf := make([]byte, 20)
	err = sa.encodeInto(buf, func(int) bool { return false })
	require.NoError(t, err)
	require.False(t, sa.Entries[0].Changed)
}
