package fru

import (
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

type fruState int

const (
	fruStateLoaded fruState = iota
	fruStateClosed
)

// Fru is the top-level handle to one decoded or freshly created FRU
// Information Storage Definition blob: the common header plus whichever
// of the five areas are present. Every mutating method marks the
// affected area Changed; Write reports the accumulated minimal update
// ranges and WriteComplete commits them as the new baseline for the
// next round of edits.
//
// A Fru is not safe for concurrent use on its own; callers that share
// one across goroutines must supply a Locker to NewFru/Decode and take
// it themselves around each call (the package does not take it for
// you, matching a data structure rather than a service).
type Fru struct {
	lock        sync.Locker
	registry    *OEMRegistry
	state       fruState
	openNodes   int
	totalLength int
	headerDirty bool

	Internal     *InternalUseArea
	Chassis      *ChassisInfoArea
	Board        *BoardInfoArea
	Product      *ProductInfoArea
	MultiRecords *MultiRecordArea
}

// NewFru creates an empty FRU backed by a storage region of totalLength
// bytes (the common header plus whatever areas are later added with
// AddArea). lock may be nil if the caller does not need one; registry
// may be nil to disable OEM multi-record decoding.
func NewFru(totalLength int, lock sync.Locker, registry *OEMRegistry) (*Fru, error) {
	const op = "NewFru"
	if totalLength < commonHeaderLen || totalLength%8 != 0 {
		return nil, newErr(op, CodeInvalidArgument, "total length must be a multiple of 8 of at least %d, got %d", commonHeaderLen, totalLength)
	}
	return &Fru{
		lock:        lock,
		registry:    registry,
		totalLength: totalLength,
		headerDirty: true,
	}, nil
}

// Decode parses an existing FRU Information Storage Definition blob.
// lock and registry follow the same rules as NewFru.
func Decode(buf []byte, lock sync.Locker, registry *OEMRegistry) (*Fru, error) {
	const op = "Decode"
	if len(buf) < commonHeaderLen {
		return nil, newErr(op, CodeBadFormat, "buffer of %d bytes is shorter than the common header", len(buf))
	}
	hdr := buf[:commonHeaderLen]
	if !checksumValid(hdr) {
		return nil, newErr(op, CodeBadFormat, "common header checksum failed")
	}
	if hdr[0] != commonHeaderFormatVersion {
		return nil, newErr(op, CodeNotImplemented, "unsupported common header format version %d", hdr[0])
	}

	type slot struct {
		kind   AreaKind
		offset int
	}
	var present []slot
	for k := AreaKind(0); k < areaKindCount; k++ {
		off := int(hdr[1+int(k)]) * 8
		if off != 0 {
			present = append(present, slot{k, off})
		}
	}
	sort.Slice(present, func(i, j int) bool { return present[i].offset < present[j].offset })

	f := &Fru{lock: lock, registry: registry, totalLength: len(buf)}
	maxOffset := maxOffsetFor(len(buf))
	for i, s := range present {
		end := len(buf)
		if i+1 < len(present) {
			end = present[i+1].offset
		}
		if s.offset < commonHeaderLen || s.offset >= end || end > len(buf) || s.offset > maxOffset {
			return nil, newErr(op, CodeBadFormat, "%s area offset %d is inconsistent with neighboring areas", s.kind, s.offset)
		}
		rec := newAreaRecord(s.kind)
		if err := rec.decode(buf[s.offset:end]); err != nil {
			return nil, err
		}
		h := rec.Header()
		h.Offset = s.offset
		switch s.kind {
		case AreaInternalUse, AreaMultiRecord:
			// Neither area kind carries a self-declared length on the
			// wire; its length is however much room the gap to the next
			// present area (or end of blob) leaves it.
			h.Length = end - s.offset
		}
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
	}
	return f, nil
}

// Lock takes the Fru's associated Locker, if one was supplied.
func (f *Fru) Lock() {
	if f.lock != nil {
		f.lock.Lock()
	}
}

// Unlock releases the Fru's associated Locker, if one was supplied.
func (f *Fru) Unlock() {
	if f.lock != nil {
		f.lock.Unlock()
	}
}

// Close marks the Fru unusable for further calls. It is an error to
// Close a Fru with outstanding nodes obtained from GetRootNode.
func (f *Fru) Close() error {
	if f.openNodes > 0 {
		return newErr("Close", CodeInvalidArgument, "%d node(s) are still open", f.openNodes)
	}
	f.state = fruStateClosed
	return nil
}

// Write encodes the Fru's current in-memory state into buf (which must
// be at least as large as the FRU's total length) and returns the list
// of byte ranges that changed relative to the last committed state.
// Write does not itself commit that state as the new baseline -
// calling it again without an intervening WriteComplete reports the
// same ranges again; call WriteComplete once the caller has durably
// applied the returned ranges.
func (f *Fru) Write(buf []byte) ([]UpdateRange, error) {
	const op = "Write"
	if f.state == fruStateClosed {
		return nil, newErr(op, CodeInvalidArgument, "FRU is closed")
	}
	if len(buf) < f.totalLength {
		return nil, newErr(op, CodeInvalidArgument, "output buffer of %d bytes is smaller than the %d byte FRU", len(buf), f.totalLength)
	}
	pl := &planner{}
	for k := AreaKind(0); k < areaKindCount; k++ {
		rec := f.areaRecord(k)
		if rec == nil {
			continue
		}
		if err := rec.encode(buf, pl); err != nil {
			return nil, wrapErr(op, CodeInternal, err, "encoding %s area", k)
		}
	}
	f.encodeHeader(buf)
	if f.headerDirty {
		pl.add(0, commonHeaderLen)
	}
	return pl.ranges, nil
}

// WriteComplete commits the state most recently produced by Write as
// the new baseline: every area's Changed/Rewrite flags are cleared and
// its OrigUsedLength is set to its current UsedLength, so the next
// Write reports only what changes after this point.
func (f *Fru) WriteComplete() {
	f.headerDirty = false
	for k := AreaKind(0); k < areaKindCount; k++ {
		rec := f.areaRecord(k)
		if rec == nil {
			continue
		}
		h := rec.Header()
		h.Changed = false
		h.Rewrite = false
		h.OrigUsedLength = h.UsedLength
		switch a := rec.(type) {
		case *ChassisInfoArea:
			a.Strings.clearChanged()
		case *BoardInfoArea:
			a.Strings.clearChanged()
		case *ProductInfoArea:
			a.Strings.clearChanged()
		case *MultiRecordArea:
			for _, r := range a.Records {
				r.Changed = false
			}
		}
	}
}

// MarshalJSON renders the entire field tree (every area's fields and
// every multi-record, OEM-decoded where a registered decoder matches)
// as a nested JSON document, for "frutool show --format json".
func (f *Fru) MarshalJSON() ([]byte, error) {
	root := f.GetRootNode()
	defer root.Close()
	v, err := nodeToJSON(root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func nodeToJSON(n *Node) (interface{}, error) {
	if n.kind == nodeArray || n.kind == nodeMultiRecordArray {
		var out []interface{}
		for i := 0; ; i++ {
			_, kind, value, sub, err := n.GetField(i)
			if err != nil {
				if code, ok := CodeOf(err); ok && code == CodeNotFound {
					break
				}
				return nil, err
			}
			if kind == FieldSubNode {
				v, err := nodeToJSON(sub)
				sub.Close()
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			} else {
				out = append(out, jsonScalar(value))
			}
		}
		return out, nil
	}

	m := map[string]interface{}{}
	for i := 0; ; i++ {
		name, kind, value, sub, err := n.GetField(i)
		if err != nil {
			if code, ok := CodeOf(err); ok && code == CodeNotFound {
				break
			}
			return nil, err
		}
		if kind == FieldSubNode {
			v, err := nodeToJSON(sub)
			sub.Close()
			if err != nil {
				return nil, err
			}
			m[name] = v
		} else {
			m[name] = jsonScalar(value)
		}
	}
	return m, nil
}

func jsonScalar(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		return hex.EncodeToString(t)
	default:
		return v
	}
}
