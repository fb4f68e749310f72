package fru

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const commonHeaderLen = 8
const commonHeaderFormatVersion = 1

// maxAreaOffset is the largest offset the common header can represent:
// each area's offset is stored as a single byte counting 8-byte units
// (byte(offset/8)), so nothing past 255*8 is representable on the wire.
const maxAreaOffset = 255 * 8

// maxOffsetFor returns the largest area offset usable within a FRU of
// the given total length: the header's own representable ceiling,
// capped further so the area still fits before the end of storage.
func maxOffsetFor(totalLength int) int {
	max := maxAreaOffset
	if room := totalLength - commonHeaderLen; room < max {
		max = room
	}
	return max
}

// checkAreaPlacement verifies that an area of length bytes at offset
// would fit within the FRU's storage, stay within the header's
// representable offset range, and not intrude on any other present
// area. kind is excluded from the overlap scan so callers can use this
// to validate a move or resize of the area they are already holding.
func (f *Fru) checkAreaPlacement(op string, kind AreaKind, offset, length int) error {
	if offset > maxOffsetFor(f.totalLength) {
		return newErr(op, CodeOutOfSpace, "offset %d exceeds the largest offset representable in the common header", offset)
	}
	if offset+length > f.totalLength {
		return newErr(op, CodeOutOfSpace, "area would run past end of FRU storage")
	}
	end := offset + length
	for k := AreaKind(0); k < areaKindCount; k++ {
		if k == kind {
			continue
		}
		rec := f.areaRecord(k)
		if rec == nil {
			continue
		}
		h := rec.Header()
		if offset < h.Offset+h.Length && h.Offset < end {
			return newErr(op, CodeInvalidArgument, "would overlap the %s area at offset %d length %d", k, h.Offset, h.Length)
		}
	}
	return nil
}

// areaRecord returns the area currently occupying kind, or nil.
func (f *Fru) areaRecord(kind AreaKind) AreaRecord {
	switch kind {
	case AreaInternalUse:
		if f.Internal == nil {
			return nil
		}
		return f.Internal
	case AreaChassisInfo:
		if f.Chassis == nil {
			return nil
		}
		return f.Chassis
	case AreaBoardInfo:
		if f.Board == nil {
			return nil
		}
		return f.Board
	case AreaProductInfo:
		if f.Product == nil {
			return nil
		}
		return f.Product
	case AreaMultiRecord:
		if f.MultiRecords == nil {
			return nil
		}
		return f.MultiRecords
	default:
		return nil
	}
}

func (f *Fru) nextFreeOffset() int {
	end := commonHeaderLen
	for k := AreaKind(0); k < areaKindCount; k++ {
		if rec := f.areaRecord(k); rec != nil {
			h := rec.Header()
			if off := h.Offset + h.Length; off > end {
				end = off
			}
		}
	}
	return end
}

// AddArea creates a new area of the given kind with length bytes of
// reserved storage, placed immediately after the current end of the
// occupied region, and gives it fresh default content. length must be
// a multiple of 8 and at least the area kind's minimum empty size
// (Multi-Record has no minimum and may be zero). A Multi-Record area
// always runs from its offset to the end of FRU storage, so for it
// length is only checked, not used as the reserved size.
func (f *Fru) AddArea(kind AreaKind, length int) error {
	const op = "AddArea"
	if kind < 0 || kind >= areaKindCount {
		return newErr(op, CodeInvalidArgument, "unknown area kind %d", int(kind))
	}
	if f.areaRecord(kind) != nil {
		return newErr(op, CodeAlreadyExists, "%s area is already present", kind)
	}
	if length%8 != 0 || length < 0 {
		return newErr(op, CodeInvalidArgument, "area length must be a non-negative multiple of 8, got %d", length)
	}
	if min := emptyLength[kind]; length < min {
		return newErr(op, CodeInvalidArgument, "%s area must be at least %d bytes, got %d", kind, min, length)
	}

	offset := f.nextFreeOffset()
	if kind == AreaMultiRecord {
		length = f.totalLength - offset
	}
	if err := f.checkAreaPlacement(op, kind, offset, length); err != nil {
		return err
	}

	rec := newAreaRecord(kind)
	rec.setupNew()
	h := rec.Header()
	h.Offset = offset
	h.Length = length
	h.Changed = true
	h.Rewrite = true

	switch a := rec.(type) {
	case *InternalUseArea:
		f.Internal = a
	case *ChassisInfoArea:
		f.Chassis = a
	case *BoardInfoArea:
		f.Board = a
	case *ProductInfoArea:
		f.Product = a
	case *MultiRecordArea:
		f.MultiRecords = a
	}
	f.headerDirty = true
	return nil
}

// DeleteArea removes an existing area entirely, freeing its storage.
func (f *Fru) DeleteArea(kind AreaKind) error {
	const op = "DeleteArea"
	if f.areaRecord(kind) == nil {
		return newErr(op, CodeNotFound, "%s area is not present", kind)
	}
	switch kind {
	case AreaInternalUse:
		f.Internal = nil
	case AreaChassisInfo:
		f.Chassis = nil
	case AreaBoardInfo:
		f.Board = nil
	case AreaProductInfo:
		f.Product = nil
	case AreaMultiRecord:
		f.MultiRecords = nil
	}
	f.headerDirty = true
	return nil
}

// SetAreaOffset repositions an existing area. The new placement is
// checked synchronously against the header's representable offset
// range, the end of FRU storage, and every other present area's
// current placement; Validate remains a backstop for FRUs assembled
// by other means (e.g. Decode of a malformed blob).
func (f *Fru) SetAreaOffset(kind AreaKind, offset int) error {
	const op = "SetAreaOffset"
	rec := f.areaRecord(kind)
	if rec == nil {
		return newErr(op, CodeNotFound, "%s area is not present", kind)
	}
	if offset%8 != 0 || offset < commonHeaderLen {
		return newErr(op, CodeInvalidArgument, "offset must be a multiple of 8 past the common header, got %d", offset)
	}
	h := rec.Header()
	if err := f.checkAreaPlacement(op, kind, offset, h.Length); err != nil {
		return err
	}
	h.Offset = offset
	h.Changed = true
	h.Rewrite = true
	f.headerDirty = true
	return nil
}

// SetAreaLength resizes an existing area's reserved storage. length
// must be a multiple of 8 and at least the area's currently used
// length; shrinking below that is reported as CodeTooBig (the area's
// existing content no longer fits), not as a malformed argument. The
// new length is also checked against the end of FRU storage and every
// other present area's current placement.
func (f *Fru) SetAreaLength(kind AreaKind, length int) error {
	const op = "SetAreaLength"
	rec := f.areaRecord(kind)
	if rec == nil {
		return newErr(op, CodeNotFound, "%s area is not present", kind)
	}
	h := rec.Header()
	if length%8 != 0 {
		return newErr(op, CodeInvalidArgument, "length must be a multiple of 8, got %d", length)
	}
	if length < h.UsedLength {
		return newErr(op, CodeTooBig, "length %d is smaller than the %d bytes already used", length, h.UsedLength)
	}
	if err := f.checkAreaPlacement(op, kind, h.Offset, length); err != nil {
		return err
	}
	h.Length = length
	h.Changed = true
	h.Rewrite = true
	f.headerDirty = true
	return nil
}

// GetAreaOffset returns the area's current offset within the FRU blob.
func (f *Fru) GetAreaOffset(kind AreaKind) (int, error) {
	rec := f.areaRecord(kind)
	if rec == nil {
		return 0, newErr("GetAreaOffset", CodeNotFound, "%s area is not present", kind)
	}
	return rec.Header().Offset, nil
}

// GetAreaLength returns the area's reserved length.
func (f *Fru) GetAreaLength(kind AreaKind) (int, error) {
	rec := f.areaRecord(kind)
	if rec == nil {
		return 0, newErr("GetAreaLength", CodeNotFound, "%s area is not present", kind)
	}
	return rec.Header().Length, nil
}

// GetAreaUsedLength returns the number of bytes of the area's reserved
// length actually occupied by its current content.
func (f *Fru) GetAreaUsedLength(kind AreaKind) (int, error) {
	rec := f.areaRecord(kind)
	if rec == nil {
		return 0, newErr("GetAreaUsedLength", CodeNotFound, "%s area is not present", kind)
	}
	return rec.Header().UsedLength, nil
}

// Validate checks every placement invariant across all present areas:
// 8-byte alignment, no header overlap, no running past the end of
// storage, used length within reserved length, and monotonically
// non-decreasing offsets in area-kind order. All violations found are
// returned together.
func (f *Fru) Validate() error {
	var merr *multierror.Error
	prevEnd := commonHeaderLen
	for k := AreaKind(0); k < areaKindCount; k++ {
		rec := f.areaRecord(k)
		if rec == nil {
			continue
		}
		h := rec.Header()
		if h.Offset%8 != 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s area offset %d is not 8-byte aligned", k, h.Offset))
		}
		if h.Length%8 != 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s area length %d is not a multiple of 8", k, h.Length))
		}
		if h.Offset+h.Length > f.totalLength {
			merr = multierror.Append(merr, fmt.Errorf("%s area runs past end of storage at offset %d length %d", k, h.Offset, h.Length))
		}
		if h.UsedLength > h.Length {
			merr = multierror.Append(merr, fmt.Errorf("%s area used length %d exceeds reserved length %d", k, h.UsedLength, h.Length))
		}
		if h.Offset < prevEnd {
			merr = multierror.Append(merr, fmt.Errorf("%s area offset %d breaks monotonic area placement", k, h.Offset))
		} else {
			prevEnd = h.Offset + h.Length
		}
	}
	return merr.ErrorOrNil()
}

func (f *Fru) encodeHeader(buf []byte) {
	var hdr [commonHeaderLen]byte
	hdr[0] = commonHeaderFormatVersion
	for k := AreaKind(0); k < areaKindCount; k++ {
		if rec := f.areaRecord(k); rec != nil {
			hdr[1+int(k)] = byte(rec.Header().Offset / 8)
		}
	}
	hdr[7] = zeroSum(hdr[:7])
	copy(buf[:commonHeaderLen], hdr[:])
}
