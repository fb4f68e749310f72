package show

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/camelcase"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/liumorgan/openipmi/cmds/frutool/commands"
	"github.com/liumorgan/openipmi/pkg/fru"
)

// areaTypeName maps an area kind to the exported Go type name backing
// it, so areaTitle can split it into a human-readable table title.
var areaTypeName = map[fru.AreaKind]string{
	fru.AreaInternalUse: "InternalUseArea",
	fru.AreaChassisInfo: "ChassisInfoArea",
	fru.AreaBoardInfo:   "BoardInfoArea",
	fru.AreaProductInfo: "ProductInfoArea",
	fru.AreaMultiRecord: "MultiRecordArea",
}

func areaTitle(k fru.AreaKind) string {
	return strings.Join(camelcase.Split(areaTypeName[k]), " ")
}

var _ commands.Command = (*Command)(nil)

// Command implements "frutool show -f FILE [--format text|json]".
type Command struct {
	FruPath string `short:"f" long:"fru" description:"path to a FRU Information Storage Definition blob" required:"true"`
	Format  string `long:"format" description:"output format: text or json" default:"text"`
}

// ShortDescription explains what this command does in one line.
func (cmd *Command) ShortDescription() string {
	return "decodes a FRU blob and prints its areas and fields"
}

// LongDescription explains what this verb does in more detail.
func (cmd *Command) LongDescription() string {
	return "Decodes a FRU Information Storage Definition blob and prints its areas and fields,\n" +
		"either as tables (text, the default; custom-string arrays and multi-records are not listed)\n" +
		"or as one JSON document with the full field tree."
}

// Execute runs the show command.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("show takes no positional arguments")}
	}

	buf, err := os.ReadFile(cmd.FruPath)
	if err != nil {
		return fmt.Errorf("unable to read FRU file %q: %w", cmd.FruPath, err)
	}
	f, err := fru.Decode(buf, nil, fru.NewOEMRegistry())
	if err != nil {
		return fmt.Errorf("unable to decode FRU blob: %w", err)
	}

	switch strings.ToLower(cmd.Format) {
	case "", "text":
		printText(f)
	case "json":
		b, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to render JSON: %w", err)
		}
		fmt.Printf("%s\n", b)
	default:
		return commands.ErrArgs{Err: fmt.Errorf("unknown format %q", cmd.Format)}
	}
	return nil
}

func printText(f *fru.Fru) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Areas")
	t.AppendHeader(table.Row{"Area", "Offset", "Length", "Used"})
	for _, k := range []fru.AreaKind{fru.AreaInternalUse, fru.AreaChassisInfo, fru.AreaBoardInfo, fru.AreaProductInfo, fru.AreaMultiRecord} {
		off, err := f.GetAreaOffset(k)
		if err != nil {
			continue
		}
		length, _ := f.GetAreaLength(k)
		used, _ := f.GetAreaUsedLength(k)
		t.AppendRow(table.Row{areaTitle(k), off, humanize.Bytes(uint64(length)), humanize.Bytes(uint64(used))})
	}
	t.Render()

	root := f.GetRootNode()
	defer root.Close()
	ft := table.NewWriter()
	ft.SetOutputMirror(os.Stdout)
	ft.SetTitle("Fields")
	ft.AppendHeader(table.Row{"Name", "Value"})
	for i := 0; ; i++ {
		name, kind, value, sub, err := root.GetField(i)
		if err != nil {
			break
		}
		if kind == fru.FieldSubNode {
			if sub != nil {
				sub.Close()
			}
			continue
		}
		ft.AppendRow(table.Row{name, value})
	}
	ft.Render()
}
