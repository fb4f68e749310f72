// Package log provides the logging collaborator used by the FRU engine
// for recoverable anomalies it chooses to continue past. The engine
// never uses this package in place of returning an error, so unlike
// fiano's pkg/log (which this one is adapted from) there is no Fatalf:
// a codec library must never terminate its caller's process.
package log

import (
	"fmt"
	"log"
	"os"
)

// Context locates an anomaly within a FRU blob: which area produced it
// and, for a multi-record anomaly, which record index. Threading this
// through Warnf/Errorf keeps the format string focused on the anomaly
// itself rather than repeating "board_info: " or "multi-record 3: " at
// every call site.
type Context struct {
	Area        string
	RecordIndex int
	HasRecord   bool
}

func (c Context) String() string {
	switch {
	case c.Area == "":
		return ""
	case c.HasRecord:
		return fmt.Sprintf("[%s record %d] ", c.Area, c.RecordIndex)
	default:
		return fmt.Sprintf("[%s] ", c.Area)
	}
}

// Logger describes a logger to be used throughout this module.
type Logger interface {
	// Warnf logs a recoverable anomaly at ctx.
	Warnf(ctx Context, format string, args ...interface{})

	// Errorf logs a non-fatal error at ctx.
	Errorf(ctx Context, format string, args ...interface{})
}

// DefaultLogger is the logger used by default everywhere in this module.
var DefaultLogger Logger

func init() {
	DefaultLogger = logWrapper{Logger: log.New(os.Stderr, "", log.LstdFlags)}
}

type logWrapper struct {
	Logger *log.Logger
}

// Warnf implements Logger.
func (l logWrapper) Warnf(ctx Context, format string, args ...interface{}) {
	l.Logger.Printf("[fru][WARN] "+ctx.String()+format, args...)
}

// Errorf implements Logger.
func (l logWrapper) Errorf(ctx Context, format string, args ...interface{}) {
	l.Logger.Printf("[fru][ERROR] "+ctx.String()+format, args...)
}

// Warnf logs a recoverable anomaly with the default logger.
func Warnf(ctx Context, format string, args ...interface{}) {
	DefaultLogger.Warnf(ctx, format, args...)
}

// Errorf logs a non-fatal error with the default logger.
func Errorf(ctx Context, format string, args ...interface{}) {
	DefaultLogger.Errorf(ctx, format, args...)
}
