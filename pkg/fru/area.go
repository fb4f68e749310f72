package fru

import "fmt"

// AreaKind identifies one of the five area kinds a FRU blob can carry.
type AreaKind int

// The five area kinds, in header-table order.
const (
	AreaInternalUse AreaKind = iota
	AreaChassisInfo
	AreaBoardInfo
	AreaProductInfo
	AreaMultiRecord
	areaKindCount
)

func (k AreaKind) String() string {
	switch k {
	case AreaInternalUse:
		return "internal_use"
	case AreaChassisInfo:
		return "chassis_info"
	case AreaBoardInfo:
		return "board_info"
	case AreaProductInfo:
		return "product_info"
	case AreaMultiRecord:
		return "multi_record"
	default:
		return fmt.Sprintf("area(%d)", int(k))
	}
}

// emptyLength is the minimum reserved length, per spec.md's data model,
// for the first four area kinds (Multi-Record has no fixed minimum; it
// always runs to end-of-blob).
var emptyLength = map[AreaKind]int{
	AreaInternalUse:  1,
	AreaChassisInfo:  7,
	AreaBoardInfo:    13,
	AreaProductInfo:  12,
	AreaMultiRecord:  0,
}

// AreaHeader is the bookkeeping every area kind shares: its placement in
// the blob, its reserved and used sizes, and the dirty flags the Write
// Planner resolves at encode time.
type AreaHeader struct {
	Kind           AreaKind
	Offset         int
	Length         int
	UsedLength     int
	OrigUsedLength int
	Changed        bool
	Rewrite        bool
}

// AreaRecord is the uniform protocol every area kind implements: decode
// from wire bytes, encode back to wire bytes while reporting update
// ranges, and set up fresh default content for a newly added area.
type AreaRecord interface {
	Header() *AreaHeader
	decode(data []byte) error
	encode(buf []byte, pl *planner) error
	setupNew()
}

func newAreaRecord(kind AreaKind) AreaRecord {
	switch kind {
	case AreaInternalUse:
		return &InternalUseArea{AreaHeader: AreaHeader{Kind: kind}}
	case AreaChassisInfo:
		return &ChassisInfoArea{AreaHeader: AreaHeader{Kind: kind}}
	case AreaBoardInfo:
		return &BoardInfoArea{AreaHeader: AreaHeader{Kind: kind}}
	case AreaProductInfo:
		return &ProductInfoArea{AreaHeader: AreaHeader{Kind: kind}}
	case AreaMultiRecord:
		return &MultiRecordArea{AreaHeader: AreaHeader{Kind: kind}}
	default:
		return nil
	}
}

// encodeStringArrayArea writes a fixed header plus a variable string
// array, terminator and checksum into the area's reserved region of
// buf, and reports the fine-grained update ranges described in
// spec.md §4.3 step 2-6. header is the already-populated fixed header
// bytes (version, length/8, ...); sa is the area's string array.
func encodeStringArrayArea(h *AreaHeader, buf []byte, pl *planner, header []byte, sa *StringArray, unicodeHint func(index int) bool) error {
	region := buf[h.Offset : h.Offset+h.Length]
	for i := range region {
		region[i] = 0
	}
	copy(region, header)
	if h.Changed && !h.Rewrite {
		pl.add(h.Offset, len(header))
	}

	if err := sa.encodeInto(region, unicodeHint); err != nil {
		return err
	}
	if h.Changed && !h.Rewrite {
		for _, e := range sa.Entries {
			if e.Changed {
				pl.add(h.Offset+e.Offset, e.RawLen)
			}
		}
	}

	termOffset := firstOffsetAfter(sa.Entries)
	region[termOffset] = terminatorByte
	if h.Changed && !h.Rewrite {
		pl.add(h.Offset+termOffset, 1)
	}

	newUsed := termOffset + 2
	if newUsed < h.OrigUsedLength && !h.Rewrite {
		pl.add(h.Offset+newUsed, h.OrigUsedLength-newUsed)
	}
	h.UsedLength = newUsed

	region[h.Length-1] = zeroSum(region[:h.Length-1])
	if h.Changed && !h.Rewrite {
		pl.add(h.Offset+h.Length-1, 1)
	}

	if h.Rewrite {
		pl.addWhole(h.Offset, h.Length)
	}
	return nil
}
