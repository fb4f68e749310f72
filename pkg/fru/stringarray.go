package fru

// DecodeStringArray parses a sequence of TLV strings starting at
// firstOffset within area, stopping at the terminator byte 0xC1. It
// returns the parsed array and the offset of the terminator byte
// (area-relative), so the caller can validate the trailing checksum and
// compute used_length. unicodeHint is consulted per field position
// (0-based, fixed fields first) rather than per wire type, since some
// areas force specific fixed fields to ASCII regardless of language
// code.
func DecodeStringArray(op string, area []byte, numFixed, firstOffset int, unicodeHint func(index int) bool) (*StringArray, int, error) {
	sa := &StringArray{NumFixed: numFixed}
	offset := firstOffset
	count := 0
	for {
		if offset >= len(area) {
			return nil, 0, newErr(op, CodeBadFormat, "variable string array runs past end of area")
		}
		if area[offset] == terminatorByte {
			if count < numFixed {
				return nil, 0, newErr(op, CodeBadFormat, "area has only %d of %d fixed strings", count, numFixed)
			}
			return sa, offset, nil
		}
		typ, payload, consumed, err := DecodeTLV(area[offset:], unicodeHint(count))
		if err != nil {
			return nil, 0, err
		}
		sa.Entries = append(sa.Entries, &TLVString{
			Type:    typ,
			Payload: payload,
			Offset:  offset,
			RawLen:  consumed,
			raw:     append([]byte(nil), area[offset:offset+consumed]...),
		})
		offset += consumed
		count++
	}
}

// TLVString is one entry of a variable string array: a decoded logical
// value plus enough bookkeeping to reproduce its exact on-wire bytes
// when unchanged, per the "raw cached bytes" design in DESIGN.md.
type TLVString struct {
	Type    StringType
	Payload []byte
	Offset  int
	RawLen  int
	raw     []byte
	Changed bool
}

func newEmptyTLVString(offset int) *TLVString {
	return &TLVString{Type: TypeASCIIOrUnicode, Offset: offset, RawLen: 1, raw: []byte{emptyStringByte}}
}

// encode returns the on-wire bytes for s, reusing the cached raw copy
// when the string has not been touched since it was last read from (or
// written to) the wire.
func (s *TLVString) encode(unicodeHint bool) ([]byte, error) {
	if !s.Changed && s.raw != nil {
		return s.raw, nil
	}
	return EncodeTLV(s.Type, s.Payload, unicodeHint)
}

// StringArray is the ordered sequence of TLV strings making up an info
// area: NumFixed fixed-position entries followed by any number of
// custom entries, terminated on the wire by 0xC1 and a checksum byte.
type StringArray struct {
	NumFixed int
	Entries  []*TLVString
}

// NewStringArray builds a fresh array with NumFixed empty fixed fields,
// starting at firstOffset (the area's fixed-header length), and no
// custom entries.
func NewStringArray(numFixed, firstOffset int) *StringArray {
	sa := &StringArray{NumFixed: numFixed}
	offset := firstOffset
	for i := 0; i < numFixed; i++ {
		sa.Entries = append(sa.Entries, newEmptyTLVString(offset))
		offset++
	}
	return sa
}

// CustomCount returns the number of custom (non-fixed) entries.
func (sa *StringArray) CustomCount() int {
	return len(sa.Entries) - sa.NumFixed
}

// Get returns the entry at the given logical index. When isCustom is
// false, index must address one of the fixed fields; otherwise it is
// relative to the first custom entry.
func (sa *StringArray) Get(op string, index int, isCustom bool) (*TLVString, error) {
	target, err := sa.resolve(op, index, isCustom, false)
	if err != nil {
		return nil, err
	}
	return sa.Entries[target], nil
}

func (sa *StringArray) resolve(op string, index int, isCustom, forAppend bool) (int, error) {
	if !isCustom {
		if index < 0 || index >= sa.NumFixed {
			return 0, newErr(op, CodeInvalidArgument, "fixed field index %d out of range", index)
		}
		return index, nil
	}
	customLen := sa.CustomCount()
	if forAppend {
		if index < 0 {
			return 0, newErr(op, CodeInvalidArgument, "custom index %d invalid", index)
		}
		return sa.NumFixed + customLen, nil
	}
	if index < 0 || index >= customLen {
		return 0, newErr(op, CodeNotFound, "custom index %d out of range", index)
	}
	return sa.NumFixed + index, nil
}

// shiftFrom adds diff to the offsets of every entry at or after idx and
// marks them changed.
func (sa *StringArray) shiftFrom(idx, diff int) {
	for i := idx; i < len(sa.Entries); i++ {
		sa.Entries[i].Offset += diff
		sa.Entries[i].Changed = true
	}
}

// Set applies a new value to the fixed or custom entry addressed by
// (index, isCustom). A nil payload clears the entry: for a fixed entry
// this replaces it with the empty encoding; for a custom entry this
// deletes it and reflows the following entries. An index past the end
// of the custom entries appends a new one. capacity is the number of
// spare bytes currently available in the enclosing area (length minus
// used_length); if the new raw length would need more than that, the
// array is left unchanged and CodeOutOfSpace is returned.
func (sa *StringArray) Set(op string, index int, isCustom bool, typ StringType, payload []byte, unicodeHint bool, capacity int) (diff int, err error) {
	if isCustom && payload == nil {
		return sa.deleteCustom(op, index)
	}

	customLen := sa.CustomCount()
	appending := isCustom && index >= customLen
	target, rerr := sa.resolve(op, index, isCustom, appending)
	if rerr != nil {
		return 0, rerr
	}

	raw, eerr := EncodeTLV(typ, payload, unicodeHint)
	if eerr != nil {
		return 0, wrapErr(op, CodeInvalidArgument, eerr, "encoding value")
	}

	if appending {
		newLen := len(raw)
		if newLen > capacity {
			return 0, newErr(op, CodeOutOfSpace, "no room for %d more bytes", newLen-capacity)
		}
		offset := firstOffsetAfter(sa.Entries)
		entry := &TLVString{Type: typ, Payload: payload, Offset: offset, RawLen: newLen, raw: raw, Changed: true}
		sa.Entries = append(sa.Entries, entry)
		return newLen, nil
	}

	entry := sa.Entries[target]
	oldRaw := entry.RawLen
	diff = len(raw) - oldRaw
	if diff > capacity {
		return 0, newErr(op, CodeOutOfSpace, "no room for %d more bytes", diff-capacity)
	}
	entry.Type = typ
	entry.Payload = payload
	entry.raw = raw
	entry.RawLen = len(raw)
	entry.Changed = true
	sa.shiftFrom(target+1, diff)
	return diff, nil
}

func (sa *StringArray) deleteCustom(op string, index int) (int, error) {
	target, err := sa.resolve(op, index, true, false)
	if err != nil {
		return 0, err
	}
	removed := sa.Entries[target]
	diff := -removed.RawLen
	sa.Entries = append(sa.Entries[:target], sa.Entries[target+1:]...)
	sa.shiftFrom(target, diff)
	return diff, nil
}

func firstOffsetAfter(entries []*TLVString) int {
	if len(entries) == 0 {
		return 0
	}
	last := entries[len(entries)-1]
	return last.Offset + last.RawLen
}

// encodeInto writes the on-wire bytes for every entry into buf at each
// entry's Offset (buf is the area's region) and caches them as the
// entry's raw bytes. It does not report which entries changed; callers
// read each entry's Changed flag to emit per-string update ranges.
// unicodeHint is consulted per field position, matching DecodeStringArray.
func (sa *StringArray) encodeInto(buf []byte, unicodeHint func(index int) bool) error {
	for i, e := range sa.Entries {
		raw, err := e.encode(unicodeHint(i))
		if err != nil {
			return err
		}
		e.raw = raw
		copy(buf[e.Offset:], raw)
	}
	return nil
}

// totalRawLen returns the sum of every entry's on-wire length.
func (sa *StringArray) totalRawLen() int {
	n := 0
	for _, e := range sa.Entries {
		n += e.RawLen
	}
	return n
}

// clearChanged clears the Changed flag on every entry, called from
// write_complete. It assumes encodeInto has already cached each
// entry's current raw bytes.
func (sa *StringArray) clearChanged() {
	for _, e := range sa.Entries {
		e.Changed = false
	}
}
