package fru

import (
	"fmt"

	"github.com/liumorgan/openipmi/pkg/log"
)

type nodeKind int

const (
	nodeRoot nodeKind = iota
	nodeArray
	nodeMultiRecordArray
	nodeMultiRecordEntry
	nodeStatic
)

// Node is a handle into the field tree: the root node enumerates every
// top-level field plus the multi-record chain; array nodes enumerate
// the ordinal members of a custom-string field or the multi-record
// chain; static nodes wrap the field list an OEM decoder produced for
// one multi-record's payload. Callers navigate with GetField and must
// Close every node they obtained from GetRootNode or from a GetField
// sub-node once they are done with it.
type Node struct {
	kind      nodeKind
	fru       *Fru
	descIndex int // nodeArray: index into fieldTable
	recIndex  int // nodeMultiRecordEntry: index into MultiRecords.Records
	fields    []Field
	closed    bool
}

func newStaticNode(fields []Field) *Node {
	return &Node{kind: nodeStatic, fields: fields}
}

// GetRootNode returns the root of f's field tree. The returned node
// holds a reference on f until Close is called.
func (f *Fru) GetRootNode() *Node {
	f.openNodes++
	return &Node{kind: nodeRoot, fru: f}
}

// Close releases the node's reference on its FRU. Closing a node
// obtained from a static sub-tree (OEM-decoded payload fields) is a
// no-op since those hold no reference.
func (n *Node) Close() {
	if n.closed {
		return
	}
	n.closed = true
	if n.fru != nil && n.kind == nodeRoot {
		n.fru.openNodes--
	}
}

// GetField resolves the index-th child of n, returning its name, value
// kind, scalar value (when the child is a leaf) and a sub-node (when
// the child is itself a container: a custom-string array, the
// multi-record chain, one multi-record entry, or an OEM-decoded
// payload). Exactly one of value/sub is meaningful, matching the
// child's kind. Reaching the end of n's children returns CodeNotFound,
// which callers use as the array end-of-iteration signal.
func (n *Node) GetField(index int) (name string, kind FieldKind, value interface{}, sub *Node, err error) {
	const op = "GetField"
	switch n.kind {
	case nodeRoot:
		if index < len(fieldTable) {
			desc := fieldTable[index]
			if desc.HasNum {
				return desc.Name, FieldSubNode, nil, &Node{kind: nodeArray, fru: n.fru, descIndex: index}, nil
			}
			v, err := desc.Get(n.fru, 0)
			if err != nil {
				// The area backing this field is absent from the current
				// FRU (e.g. no Product Info area); skip it rather than
				// treating the whole tree as exhausted.
				if code, ok := CodeOf(err); ok && code == CodeNotFound {
					return n.GetField(index + 1)
				}
				return "", 0, nil, nil, err
			}
			return desc.Name, desc.Kind, v, nil, nil
		}
		if index == len(fieldTable) {
			return "multirecords", FieldSubNode, nil, &Node{kind: nodeMultiRecordArray, fru: n.fru}, nil
		}
		return "", 0, nil, nil, newErr(op, CodeNotFound, "index %d past end of root node", index)

	case nodeArray:
		desc := fieldTable[n.descIndex]
		v, err := desc.Get(n.fru, index)
		if err != nil {
			return "", 0, nil, nil, err
		}
		return fmt.Sprintf("%s[%d]", desc.Name, index), desc.Kind, v, nil, nil

	case nodeMultiRecordArray:
		if n.fru.MultiRecords == nil || index >= len(n.fru.MultiRecords.Records) {
			return "", 0, nil, nil, newErr(op, CodeNotFound, "no multi-record at index %d", index)
		}
		return fmt.Sprintf("record_%d", index), FieldSubNode, nil,
			&Node{kind: nodeMultiRecordEntry, fru: n.fru, recIndex: index}, nil

	case nodeMultiRecordEntry:
		rec := n.fru.MultiRecords.Records[n.recIndex]
		switch index {
		case 0:
			return "type", FieldUint, int(rec.Type), nil, nil
		case 1:
			return "format_version", FieldUint, int(rec.FormatVersion), nil, nil
		case 2:
			return "payload", FieldBinary, rec.Payload, nil, nil
		case 3:
			registry := n.fru.registry
			if registry == nil {
				return "", 0, nil, nil, newErr(op, CodeNotFound, "no OEM registry attached to decode record payload")
			}
			name, decoded, err := registry.GetRoot(n.fru, rec.Type, rec.Payload)
			if err != nil {
				// A malformed OEM payload shouldn't abort walking the
				// rest of the field tree; log it and report the record
				// as undecoded instead.
				ctx := log.Context{Area: AreaMultiRecord.String(), RecordIndex: n.recIndex, HasRecord: true}
				log.Warnf(ctx, "OEM decoder for type 0x%02x failed: %v", rec.Type, err)
				return "", 0, nil, nil, newErr(op, CodeNotFound, "OEM decoder failed for record type 0x%02x", rec.Type)
			}
			if decoded == nil {
				return "", 0, nil, nil, newErr(op, CodeNotFound, "no decoder registered for this record type")
			}
			return name, FieldSubNode, nil, decoded, nil
		default:
			return "", 0, nil, nil, newErr(op, CodeNotFound, "index %d past end of multi-record entry", index)
		}

	case nodeStatic:
		if index < 0 || index >= len(n.fields) {
			return "", 0, nil, nil, newErr(op, CodeNotFound, "index %d past end of decoded record", index)
		}
		f := n.fields[index]
		return f.Name, f.Kind, f.Value, nil, nil
	}
	return "", 0, nil, nil, newErr(op, CodeInternal, "unknown node kind")
}
