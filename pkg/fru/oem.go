package fru

import "sync"

// OEMDecoder decodes the payload of a multi-record whose type has been
// matched against a registered (manufacturer, type) pair, returning a
// name for the resulting sub-tree and the tree-navigator node itself.
type OEMDecoder func(f *Fru, manufacturerID uint32, typeID byte, payload []byte) (name string, node *Node, err error)

type oemKey struct {
	manufacturerID uint32
	typeID         byte
}

// OEMRegistry maps (manufacturer_id, record_type_id) pairs to decoders
// for multi-record payloads. It is safe for concurrent use: lookups
// take a read lock so decoder callbacks never run with the registry
// lock held.
type OEMRegistry struct {
	mu      sync.RWMutex
	entries map[oemKey]OEMDecoder
}

// NewOEMRegistry creates a registry with the built-in IPMI
// decoders (power supply information, DC output, DC load) pre-registered.
func NewOEMRegistry() *OEMRegistry {
	r := &OEMRegistry{entries: make(map[oemKey]OEMDecoder)}
	r.Register(0, multiRecordTypePowerSupply, decodePowerSupplyInfo)
	r.Register(0, multiRecordTypeDCOutput, decodeDCOutput)
	r.Register(0, multiRecordTypeDCLoad, decodeDCLoad)
	return r
}

// Register installs a decoder for (manufacturerID, typeID). For
// typeID < 0xC0 (IPMI-defined record types) manufacturerID is ignored
// at lookup time; register it as 0 by convention.
func (r *OEMRegistry) Register(manufacturerID uint32, typeID byte, fn OEMDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[oemKey{manufacturerID, typeID}] = fn
}

// Deregister removes a previously registered decoder.
func (r *OEMRegistry) Deregister(manufacturerID uint32, typeID byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, oemKey{manufacturerID, typeID})
}

// Lookup finds a decoder matching typeID and manufacturerID per the
// rule in spec.md §4.5: an entry matches if its type id equals the
// queried id and either the id is below 0xC0 (manufacturer ignored) or
// the manufacturer ids match.
func (r *OEMRegistry) Lookup(manufacturerID uint32, typeID byte) (OEMDecoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if typeID < 0xC0 {
		for k, fn := range r.entries {
			if k.typeID == typeID {
				return fn, true
			}
		}
		return nil, false
	}
	fn, ok := r.entries[oemKey{manufacturerID, typeID}]
	return fn, ok
}

// GetRoot reads the little-endian 24-bit manufacturer id from the first
// 3 bytes of payload and looks up a decoder for (manufacturerID, typeID).
// It returns ("", nil, nil) when no decoder matches.
func (r *OEMRegistry) GetRoot(f *Fru, typeID byte, payload []byte) (string, *Node, error) {
	if len(payload) < 3 {
		return "", nil, newErr("GetRoot", CodeInvalidArgument, "multi-record payload shorter than manufacturer id field")
	}
	manufacturerID := uint32(payload[0]) | uint32(payload[1])<<8 | uint32(payload[2])<<16
	fn, ok := r.Lookup(manufacturerID, typeID)
	if !ok {
		return "", nil, nil
	}
	return fn(f, manufacturerID, typeID, payload)
}

// Built-in IPMI-defined multi-record types, per the platform management
// FRU information storage definition.
const (
	multiRecordTypePowerSupply = 0x00
	multiRecordTypeDCOutput    = 0x01
	multiRecordTypeDCLoad      = 0x02
)

func requireLen(op string, payload []byte, min int) error {
	if len(payload) < min {
		return newErr(op, CodeInvalidArgument, "payload too short: need %d bytes, got %d", min, len(payload))
	}
	return nil
}

func decodePowerSupplyInfo(f *Fru, manufacturerID uint32, typeID byte, payload []byte) (string, *Node, error) {
	if err := requireLen("decodePowerSupplyInfo", payload, 24); err != nil {
		return "", nil, err
	}
	d := payload
	fields := []Field{
		{Name: "overall_capacity", Kind: FieldUint, Value: int((uint16(d[0]) | uint16(d[1])<<8) & 0x0fff)},
	}
	if v := uint16(d[2]) | uint16(d[3])<<8; v != 0xffff {
		fields = append(fields, Field{Name: "peak_va", Kind: FieldUint, Value: int(v)})
	}
	if d[4] != 0xff {
		fields = append(fields,
			Field{Name: "inrush_current", Kind: FieldUint, Value: int(d[4])},
			Field{Name: "inrush_interval", Kind: FieldFloat, Value: float64(d[4]) / 1000.0},
		)
	}
	fields = append(fields,
		Field{Name: "low_input_voltage_1", Kind: FieldFloat, Value: float64(int16(uint16(d[6])|uint16(d[7])<<8)) / 100.0},
		Field{Name: "high_input_voltage_1", Kind: FieldFloat, Value: float64(int16(uint16(d[8])|uint16(d[9])<<8)) / 100.0},
		Field{Name: "low_input_voltage_2", Kind: FieldFloat, Value: float64(int16(uint16(d[10])|uint16(d[11])<<8)) / 100.0},
		Field{Name: "high_input_voltage_2", Kind: FieldFloat, Value: float64(int16(uint16(d[12])|uint16(d[13])<<8)) / 100.0},
		Field{Name: "low_frequency", Kind: FieldUint, Value: int(d[14])},
		Field{Name: "high_frequency", Kind: FieldUint, Value: int(d[15])},
		Field{Name: "tach_pulses_per_rotation", Kind: FieldBool, Value: d[17]&0x10 != 0},
		Field{Name: "hot_swap_support", Kind: FieldBool, Value: d[17]&0x08 != 0},
		Field{Name: "autoswitch", Kind: FieldBool, Value: d[17]&0x04 != 0},
		Field{Name: "power_factor_correction", Kind: FieldBool, Value: d[17]&0x02 != 0},
		Field{Name: "predictive_fail_support", Kind: FieldBool, Value: d[17]&0x01 != 0},
		Field{Name: "peak_capacity_hold_up_time", Kind: FieldUint, Value: int(d[19] >> 4)},
		Field{Name: "peak_capacity", Kind: FieldUint, Value: int((uint16(d[18]) | uint16(d[19])<<8) & 0xfff)},
	)
	if d[20] != 0 || d[21] != 0 || d[22] != 0 {
		fields = append(fields,
			Field{Name: "combined_wattage_voltage_1", Kind: FieldFloat, Value: combinedWattageVoltage(d[20] >> 4)},
			Field{Name: "combined_wattage_voltage_2", Kind: FieldFloat, Value: combinedWattageVoltage(d[20] & 0x0f)},
			Field{Name: "combined_wattage", Kind: FieldUint, Value: int(uint16(d[21]) | uint16(d[22])<<8)},
		)
	}
	fields = append(fields,
		Field{Name: "predictive_fail_tach_low_threshold", Kind: FieldUint, Value: int(d[23] & 0x0f)},
	)
	return "Power Supply Information", newStaticNode(fields), nil
}

func combinedWattageVoltage(nibble byte) float64 {
	switch nibble {
	case 0:
		return 12.0
	case 1:
		return -12.0
	case 2:
		return 5.0
	case 3:
		return 3.3
	default:
		return 0.0
	}
}

func decodeDCOutput(f *Fru, manufacturerID uint32, typeID byte, payload []byte) (string, *Node, error) {
	if err := requireLen("decodeDCOutput", payload, 13); err != nil {
		return "", nil, err
	}
	d := payload
	fields := []Field{
		{Name: "output_number", Kind: FieldUint, Value: int(d[0] & 0x0f)},
		{Name: "standby", Kind: FieldBool, Value: d[0]&0x80 != 0},
		{Name: "nominal_voltage", Kind: FieldFloat, Value: float64(int16(uint16(d[1])|uint16(d[2])<<8)) / 100.0},
		{Name: "max_negative_voltage_deviation", Kind: FieldFloat, Value: float64(int16(uint16(d[3])|uint16(d[4])<<8)) / 100.0},
		{Name: "max_positive_voltage_deviation", Kind: FieldFloat, Value: float64(int16(uint16(d[5])|uint16(d[6])<<8)) / 100.0},
		{Name: "ripple", Kind: FieldFloat, Value: float64(int16(uint16(d[7])|uint16(d[8])<<8)) / 1000.0},
		{Name: "min_current", Kind: FieldFloat, Value: float64(int16(uint16(d[9])|uint16(d[10])<<8)) / 1000.0},
		{Name: "max_current", Kind: FieldFloat, Value: float64(int16(uint16(d[11])|uint16(d[12])<<8)) / 1000.0},
	}
	return "DC Output", newStaticNode(fields), nil
}

func decodeDCLoad(f *Fru, manufacturerID uint32, typeID byte, payload []byte) (string, *Node, error) {
	if err := requireLen("decodeDCLoad", payload, 13); err != nil {
		return "", nil, err
	}
	d := payload
	fields := []Field{
		{Name: "output_number", Kind: FieldUint, Value: int(d[0] & 0x0f)},
		{Name: "nominal_voltage", Kind: FieldFloat, Value: float64(int16(uint16(d[1])|uint16(d[2])<<8)) / 100.0},
		{Name: "min_voltage", Kind: FieldFloat, Value: float64(int16(uint16(d[3])|uint16(d[4])<<8)) / 100.0},
		{Name: "max_voltage", Kind: FieldFloat, Value: float64(int16(uint16(d[5])|uint16(d[6])<<8)) / 100.0},
		{Name: "ripple", Kind: FieldFloat, Value: float64(int16(uint16(d[7])|uint16(d[8])<<8)) / 1000.0},
		{Name: "min_current", Kind: FieldFloat, Value: float64(int16(uint16(d[9])|uint16(d[10])<<8)) / 1000.0},
		{Name: "max_current", Kind: FieldFloat, Value: float64(int16(uint16(d[11])|uint16(d[12])<<8)) / 1000.0},
	}
	return "DC Load", newStaticNode(fields), nil
}
