package create

import (
	"fmt"
	"os"

	"github.com/liumorgan/openipmi/cmds/frutool/commands"
	"github.com/liumorgan/openipmi/pkg/fru"
)

var _ commands.Command = (*Command)(nil)

// Command implements "frutool create -f FILE --length N [--chassis N] [--board N] [--product N] [--multirecord N]".
type Command struct {
	FruPath      string `short:"f" long:"fru" description:"path to write the new FRU blob to" required:"true"`
	Length       int    `long:"length" description:"total size of the FRU storage region in bytes (multiple of 8)" required:"true"`
	InternalUse  int    `long:"internal-use" description:"reserved length for the internal use area, 0 to omit"`
	Chassis      int    `long:"chassis" description:"reserved length for the chassis info area, 0 to omit"`
	Board        int    `long:"board" description:"reserved length for the board info area, 0 to omit"`
	Product      int    `long:"product" description:"reserved length for the product info area, 0 to omit"`
	MultiRecords int    `long:"multirecord" description:"any positive value adds the multi-record area, which runs to the end of the FRU; 0 to omit" default:"-1"`
}

// ShortDescription explains what this command does in one line.
func (cmd *Command) ShortDescription() string {
	return "creates an empty FRU blob with the requested areas"
}

// LongDescription explains what this verb does in more detail.
func (cmd *Command) LongDescription() string {
	return "Creates a new FRU Information Storage Definition blob of the given total length,\n" +
		"with fresh default content in whichever of the five areas were requested."
}

// Execute runs the create command.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("create takes no positional arguments")}
	}

	f, err := fru.NewFru(cmd.Length, nil, fru.NewOEMRegistry())
	if err != nil {
		return fmt.Errorf("unable to create FRU: %w", err)
	}

	for _, a := range []struct {
		kind   fru.AreaKind
		length int
	}{
		{fru.AreaInternalUse, cmd.InternalUse},
		{fru.AreaChassisInfo, cmd.Chassis},
		{fru.AreaBoardInfo, cmd.Board},
		{fru.AreaProductInfo, cmd.Product},
		{fru.AreaMultiRecord, cmd.MultiRecords},
	} {
		if a.length <= 0 {
			continue
		}
		if err := f.AddArea(a.kind, a.length); err != nil {
			return fmt.Errorf("unable to add %s area: %w", a.kind, err)
		}
	}

	if err := f.Validate(); err != nil {
		return fmt.Errorf("layout validation failed: %w", err)
	}

	buf := make([]byte, cmd.Length)
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("unable to encode FRU: %w", err)
	}
	f.WriteComplete()

	if err := os.WriteFile(cmd.FruPath, buf, 0o644); err != nil {
		return fmt.Errorf("unable to write FRU file %q: %w", cmd.FruPath, err)
	}
	return nil
}
