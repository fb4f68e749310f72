package patch

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/liumorgan/openipmi/cmds/frutool/commands"
	"github.com/liumorgan/openipmi/pkg/fru"
)

var _ commands.Command = (*Command)(nil)

// Command implements "frutool patch -f FILE --field NAME --value VALUE".
// It decodes the FRU in place, applies one field edit, and writes back
// only the byte ranges the edit actually touched.
type Command struct {
	FruPath    string `short:"f" long:"fru" description:"path to a FRU Information Storage Definition blob" required:"true"`
	Field      string `long:"field" description:"field name, e.g. board_info_board_product_name or board_info_custom:2" required:"true"`
	Value      string `long:"value" description:"new value; for *_custom fields a nil value (omit --value) deletes the entry"`
	StringType string `long:"string-type" description:"ascii, bcdplus, sixbit or binary" default:"ascii"`
}

// ShortDescription explains what this command does in one line.
func (cmd *Command) ShortDescription() string {
	return "edits one field of a FRU blob and writes back only the changed bytes"
}

// LongDescription explains what this verb does in more detail.
func (cmd *Command) LongDescription() string {
	return "Decodes the FRU, applies one field edit through the typed area setters, re-encodes,\n" +
		"and writes only the update ranges the encode reported back into the file in place."
}

func parseStringType(s string) (fru.StringType, error) {
	switch strings.ToLower(s) {
	case "ascii", "":
		return fru.TypeASCIIOrUnicode, nil
	case "bcdplus":
		return fru.TypeBCDPlus, nil
	case "sixbit":
		return fru.TypeSixBitASCII, nil
	case "binary":
		return fru.TypeBinary, nil
	default:
		return 0, fmt.Errorf("unknown string type %q", s)
	}
}

// splitCustom splits "board_info_custom:2" into ("board_info_custom", 2, true).
func splitCustom(field string) (name string, index int, hasIndex bool, err error) {
	i := strings.IndexByte(field, ':')
	if i < 0 {
		return field, 0, false, nil
	}
	idx, perr := strconv.Atoi(field[i+1:])
	if perr != nil {
		return "", 0, false, fmt.Errorf("invalid custom field index in %q: %w", field, perr)
	}
	return field[:i], idx, true, nil
}

// Execute runs the patch command.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("patch takes no positional arguments")}
	}

	buf, err := os.ReadFile(cmd.FruPath)
	if err != nil {
		return fmt.Errorf("unable to read FRU file %q: %w", cmd.FruPath, err)
	}
	f, err := fru.Decode(buf, nil, fru.NewOEMRegistry())
	if err != nil {
		return fmt.Errorf("unable to decode FRU blob: %w", err)
	}

	name, index, hasIndex, err := splitCustom(cmd.Field)
	if err != nil {
		return commands.ErrArgs{Err: err}
	}

	if err := applyEdit(f, name, index, hasIndex, cmd.Value, cmd.StringType); err != nil {
		return fmt.Errorf("unable to apply edit: %w", err)
	}

	ranges, err := f.Write(buf)
	if err != nil {
		return fmt.Errorf("unable to re-encode FRU blob: %w", err)
	}

	file, err := os.OpenFile(cmd.FruPath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("unable to open FRU file %q for writing: %w", cmd.FruPath, err)
	}
	defer file.Close()
	for _, r := range ranges {
		if _, err := file.WriteAt(buf[r.Offset:r.Offset+r.Length], int64(r.Offset)); err != nil {
			return fmt.Errorf("unable to write update range at offset %d: %w", r.Offset, err)
		}
	}
	f.WriteComplete()
	fmt.Printf("wrote %d update range(s)\n", len(ranges))
	return nil
}

func applyEdit(f *fru.Fru, name string, index int, hasIndex bool, value, stringTypeFlag string) error {
	if name == "board_info_mfg_time" {
		if f.Board == nil {
			return fmt.Errorf("board info area is not present")
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		return f.Board.SetMfgTime(t)
	}

	typ, err := parseStringType(stringTypeFlag)
	if err != nil {
		return err
	}
	var payload []byte
	if value != "" {
		payload = []byte(value)
	}

	switch name {
	case "chassis_info_part_number":
		return requireArea(f.Chassis != nil, "chassis info").apply(func() error { return f.Chassis.SetPartNumber(typ, payload) })
	case "chassis_info_serial_number":
		return requireArea(f.Chassis != nil, "chassis info").apply(func() error { return f.Chassis.SetSerialNumber(typ, payload) })
	case "chassis_info_custom":
		return requireArea(f.Chassis != nil, "chassis info").apply(func() error {
			if payload == nil && hasIndex {
				return f.Chassis.DeleteCustom(index)
			}
			return f.Chassis.SetCustom(index, typ, payload)
		})

	case "board_info_board_manufacturer":
		return requireArea(f.Board != nil, "board info").apply(func() error { return f.Board.SetManufacturer(typ, payload) })
	case "board_info_board_product_name":
		return requireArea(f.Board != nil, "board info").apply(func() error { return f.Board.SetProductName(typ, payload) })
	case "board_info_board_serial_number":
		return requireArea(f.Board != nil, "board info").apply(func() error { return f.Board.SetSerialNumber(typ, payload) })
	case "board_info_board_part_number":
		return requireArea(f.Board != nil, "board info").apply(func() error { return f.Board.SetPartNumber(typ, payload) })
	case "board_info_fru_file_id":
		return requireArea(f.Board != nil, "board info").apply(func() error { return f.Board.SetFruFileID(typ, payload) })
	case "board_info_custom":
		return requireArea(f.Board != nil, "board info").apply(func() error {
			if payload == nil && hasIndex {
				return f.Board.DeleteCustom(index)
			}
			return f.Board.SetCustom(index, typ, payload)
		})

	case "product_info_manufacturer_name":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetManufacturerName(typ, payload) })
	case "product_info_product_name":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetProductName(typ, payload) })
	case "product_info_product_part_model_number":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetPartModelNumber(typ, payload) })
	case "product_info_product_version":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetVersion(typ, payload) })
	case "product_info_product_serial_number":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetSerialNumber(typ, payload) })
	case "product_info_asset_tag":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetAssetTag(typ, payload) })
	case "product_info_fru_file_id":
		return requireArea(f.Product != nil, "product info").apply(func() error { return f.Product.SetFruFileID(typ, payload) })
	case "product_info_custom":
		return requireArea(f.Product != nil, "product info").apply(func() error {
			if payload == nil && hasIndex {
				return f.Product.DeleteCustom(index)
			}
			return f.Product.SetCustom(index, typ, payload)
		})

	default:
		return fmt.Errorf("unknown field %q", name)
	}
}

type areaGuard struct {
	present bool
	name    string
}

func requireArea(present bool, name string) areaGuard {
	return areaGuard{present: present, name: name}
}

func (g areaGuard) apply(fn func() error) error {
	if !g.present {
		return fmt.Errorf("%s area is not present", g.name)
	}
	return fn()
}
