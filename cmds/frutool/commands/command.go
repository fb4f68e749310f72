package commands

import (
	"github.com/jessevdk/go-flags"
)

// Command is a verb of "frutool <verb> ..." (show, patch, create).
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line.
	ShortDescription() string

	// LongDescription explains what this verb does in more detail.
	LongDescription() string
}
