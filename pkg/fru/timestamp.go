package fru

import "time"

// fruEpochOffset is the Unix time that FRU minute count 0 maps to, the
// epoch FRU timestamps are counted from. 820476000 is 1996-01-01
// 06:00:00 UTC (1996-01-01 00:00:00 UTC itself would be 820454400).
const fruEpochOffset = 820476000

// maxFruMinutes is the largest value a 3-byte little-endian minute count
// can hold.
const maxFruMinutes = 1<<24 - 1

// decodeTimestamp reads a 3-byte little-endian minute count and converts
// it to a time.Time in UTC.
func decodeTimestamp(b []byte) time.Time {
	t := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	return time.Unix(int64(t)*60+fruEpochOffset, 0).UTC()
}

// encodeTimestamp converts t to a 3-byte little-endian minute count since
// the FRU epoch. It fails with INVALID_ARGUMENT if t is before the epoch
// or the minute count overflows 24 bits.
func encodeTimestamp(op string, t time.Time) ([3]byte, error) {
	secs := t.Unix()
	minutes := (secs - fruEpochOffset + 30) / 60
	if secs < fruEpochOffset || minutes > maxFruMinutes {
		return [3]byte{}, newErr(op, CodeInvalidArgument, "timestamp %v out of representable range", t)
	}
	m := uint32(minutes)
	return [3]byte{byte(m), byte(m >> 8), byte(m >> 16)}, nil
}
