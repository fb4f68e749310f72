package fru

import "time"

// FieldKind enumerates the value kinds the field reflection table can
// describe, matching the uniform get/set value kinds in spec.md §4.7.
type FieldKind int

// Field value kinds.
const (
	FieldUint FieldKind = iota
	FieldTime
	FieldASCII
	FieldBinary
	FieldFloat
	FieldBool
	FieldSubNode
)

// Field is a single resolved (name, kind, value) triple, used both by
// the reflection table's generic accessor and by OEM decoders to
// describe a static multi-record sub-tree.
type Field struct {
	Name  string
	Kind  FieldKind
	Value interface{}
}

// FieldDescriptor is one entry of the compile-time field table: a name,
// a value kind, whether the field is an ordinal-indexed custom-string
// array, and the generic get/set closures bound to that field.
type FieldDescriptor struct {
	Name   string
	Kind   FieldKind
	HasNum bool
	Get    func(f *Fru, num int) (interface{}, error)
	Set    func(f *Fru, num int, value interface{}) error
}

func permissionDenied(op string) func(f *Fru, num int, value interface{}) error {
	return func(f *Fru, num int, value interface{}) error {
		return newErr(op, CodePermissionDenied, "field is set only at decode time")
	}
}

func needArea(op string, present bool) error {
	if !present {
		return newErr(op, CodeNotFound, "area is not present in this FRU")
	}
	return nil
}

func stringField(get func(f *Fru) (*StringArray, bool), fixedIndex int) (
	func(f *Fru, num int) (interface{}, error),
	func(f *Fru, num int, value interface{}) error,
) {
	isCustom := fixedIndex < 0
	getter := func(f *Fru, num int) (interface{}, error) {
		sa, ok := get(f)
		if err := needArea("GetField", ok); err != nil {
			return nil, err
		}
		idx := fixedIndex
		if isCustom {
			idx = num
		}
		entry, err := sa.Get("GetField", idx, isCustom)
		if err != nil {
			return nil, err
		}
		return entry.Payload, nil
	}
	setter := func(f *Fru, num int, value interface{}) error {
		// Setting through the reflection table is not used by the
		// typed per-area setters (chassis.go, board.go, product.go); it exists so the tree
		// navigator can expose a uniform write path too.
		return newErr("SetField", CodeNotImplemented, "set through reflection requires a typed payload; use the typed area setters")
	}
	return getter, setter
}

// fieldTable is the single reflection table enumerating every
// reachable scalar, timestamp, string and binary field across all
// areas, replacing the macro-generated accessor shells of the source
// implementation with one data-driven table (see DESIGN.md).
var fieldTable = []FieldDescriptor{
	{
		Name: "internal_use_version", Kind: FieldUint,
		Get: func(f *Fru, num int) (interface{}, error) {
			if err := needArea("GetField", f.Internal != nil); err != nil {
				return nil, err
			}
			return int(f.Internal.Version), nil
		},
		Set: permissionDenied("SetField"),
	},
	{
		Name: "internal_use", Kind: FieldBinary,
		Get: func(f *Fru, num int) (interface{}, error) {
			if err := needArea("GetField", f.Internal != nil); err != nil {
				return nil, err
			}
			return f.Internal.Data, nil
		},
	},
	{
		Name: "chassis_info_version", Kind: FieldUint,
		Get: func(f *Fru, num int) (interface{}, error) {
			if err := needArea("GetField", f.Chassis != nil); err != nil {
				return nil, err
			}
			return int(f.Chassis.Version), nil
		},
		Set: permissionDenied("SetField"),
	},
	{
		Name: "chassis_info_type", Kind: FieldUint,
		Get: func(f *Fru, num int) (interface{}, error) {
			if err := needArea("GetField", f.Chassis != nil); err != nil {
				return nil, err
			}
			return int(f.Chassis.ChassisType), nil
		},
	},
}

func init() {
	chassisFields := func(f *Fru) (*StringArray, bool) {
		if f.Chassis == nil {
			return nil, false
		}
		return f.Chassis.Strings, true
	}
	boardFields := func(f *Fru) (*StringArray, bool) {
		if f.Board == nil {
			return nil, false
		}
		return f.Board.Strings, true
	}
	productFields := func(f *Fru) (*StringArray, bool) {
		if f.Product == nil {
			return nil, false
		}
		return f.Product.Strings, true
	}

	addString := func(name string, get func(f *Fru) (*StringArray, bool), fixedIndex int) {
		getter, setter := stringField(get, fixedIndex)
		fieldTable = append(fieldTable, FieldDescriptor{
			Name: name, Kind: FieldASCII, HasNum: fixedIndex < 0, Get: getter, Set: setter,
		})
	}

	addString("chassis_info_part_number", chassisFields, chassisPartNumber)
	addString("chassis_info_serial_number", chassisFields, chassisSerial)
	addString("chassis_info_custom", chassisFields, -1)

	fieldTable = append(fieldTable,
		FieldDescriptor{
			Name: "board_info_version", Kind: FieldUint,
			Get: func(f *Fru, num int) (interface{}, error) {
				if err := needArea("GetField", f.Board != nil); err != nil {
					return nil, err
				}
				return int(f.Board.Version), nil
			},
			Set: permissionDenied("SetField"),
		},
		FieldDescriptor{
			Name: "board_info_lang_code", Kind: FieldUint,
			Get: func(f *Fru, num int) (interface{}, error) {
				if err := needArea("GetField", f.Board != nil); err != nil {
					return nil, err
				}
				return int(f.Board.LangCode), nil
			},
		},
		FieldDescriptor{
			Name: "board_info_mfg_time", Kind: FieldTime,
			Get: func(f *Fru, num int) (interface{}, error) {
				if err := needArea("GetField", f.Board != nil); err != nil {
					return nil, err
				}
				return f.Board.MfgTime, nil
			},
			Set: func(f *Fru, num int, value interface{}) error {
				if err := needArea("SetField", f.Board != nil); err != nil {
					return err
				}
				t, ok := value.(time.Time)
				if !ok {
					return newErr("SetField", CodeInvalidArgument, "expected a time.Time value")
				}
				return f.Board.SetMfgTime(t)
			},
		},
	)

	addString("board_info_board_manufacturer", boardFields, boardManufacturer)
	addString("board_info_board_product_name", boardFields, boardProductName)
	addString("board_info_board_serial_number", boardFields, boardSerial)
	addString("board_info_board_part_number", boardFields, boardPartNumber)
	addString("board_info_fru_file_id", boardFields, boardFruFileID)
	addString("board_info_custom", boardFields, -1)

	fieldTable = append(fieldTable,
		FieldDescriptor{
			Name: "product_info_version", Kind: FieldUint,
			Get: func(f *Fru, num int) (interface{}, error) {
				if err := needArea("GetField", f.Product != nil); err != nil {
					return nil, err
				}
				return int(f.Product.Version), nil
			},
			Set: permissionDenied("SetField"),
		},
		FieldDescriptor{
			Name: "product_info_lang_code", Kind: FieldUint,
			Get: func(f *Fru, num int) (interface{}, error) {
				if err := needArea("GetField", f.Product != nil); err != nil {
					return nil, err
				}
				return int(f.Product.LangCode), nil
			},
		},
	)

	addString("product_info_manufacturer_name", productFields, productManufacturer)
	addString("product_info_product_name", productFields, productName)
	addString("product_info_product_part_model_number", productFields, productPartModel)
	addString("product_info_product_version", productFields, productVersion)
	addString("product_info_product_serial_number", productFields, productSerial)
	addString("product_info_asset_tag", productFields, productAssetTag)
	addString("product_info_fru_file_id", productFields, productFruFileID)
	addString("product_info_custom", productFields, -1)
}

// StrToIndex returns the field table index for name, or -1 if unknown.
func StrToIndex(name string) int {
	for i, d := range fieldTable {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// IndexToStr returns the field table name for index, or "" if out of range.
func IndexToStr(index int) string {
	if index < 0 || index >= len(fieldTable) {
		return ""
	}
	return fieldTable[index].Name
}
