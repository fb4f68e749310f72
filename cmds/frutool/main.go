// frutool inspects and edits IPMI Platform Management FRU Information
// Storage Definition blobs.
//
// Synopsis:
//     frutool show -f FRU_FILE [--format text|json]
//     frutool patch -f FRU_FILE --field FIELD --value VALUE [--string-type ascii|bcdplus|sixbit|binary]
//     frutool create -f FRU_FILE --length N [--chassis N] [--board N] [--product N] [--multirecord N]
//
// Examples:
//     # Dump the areas and the scalar and fixed string fields as tables:
//     frutool show -f board.fru
//
//     # Dump the full field tree, including decoded multi-records, as JSON:
//     frutool show -f board.fru --format json
//
//     # Rename the board and write back only the changed bytes:
//     frutool patch -f board.fru --field board_info_board_product_name --value "Widget v2"
//
//     # Delete a custom chassis field:
//     frutool patch -f board.fru --field chassis_info_custom:0
//
//     # Create a fresh 256 byte FRU with a board info area:
//     frutool create -f new.fru --length 256 --board 64
package main

import (
	"log"

	flags "github.com/jessevdk/go-flags"

	"github.com/liumorgan/openipmi/cmds/frutool/commands"
	"github.com/liumorgan/openipmi/cmds/frutool/commands/create"
	"github.com/liumorgan/openipmi/cmds/frutool/commands/patch"
	"github.com/liumorgan/openipmi/cmds/frutool/commands/show"
)

var knownCommands = map[string]commands.Command{
	"show":   &show.Command{},
	"patch":  &patch.Command{},
	"create": &create.Command{},
}

func main() {
	parser := flags.NewParser(nil, flags.Default)
	for name, cmd := range knownCommands {
		if _, err := parser.AddCommand(name, cmd.ShortDescription(), cmd.LongDescription(), cmd); err != nil {
			panic(err)
		}
	}
	if _, err := parser.Parse(); err != nil {
		log.Fatal(err)
	}
}
