// Package tagcrash is dispatchcore's tagged fatal-abort primitive, the
// analogue of the core's external "abort_with_tag" collaborator (spec.md
// §6). Go has no process-abort-with-diagnostic-tag primitive, so Crash logs
// one structured fatal event and then panics with an *Error carrying the
// tag, which a top-level recover() (typically only in tests) can inspect.
package tagcrash

import (
	"fmt"

	"github.com/joeycumines/dispatchcore/internal/dlog"
)

// Error is the panic value Crash raises. Tag identifies the exact
// invariant-violation or allocation-failure check point, mirroring the tag
// values the original abort_with_tag primitive threaded through.
type Error struct {
	Tag     uint32
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("tagcrash: tag=0x%08x: %s", e.Tag, e.Message)
}

// Crash logs a fatal event tagged with tag and panics with *Error. It never
// returns.
func Crash(category string, tag uint32, message string) {
	dlog.Global().Log(dlog.Entry{
		Level:    dlog.LevelError,
		Category: category,
		Tag:      tag,
		Message:  message,
	})
	panic(&Error{Tag: tag, Message: message})
}

// Crashf is Crash with fmt.Sprintf-style formatting.
func Crashf(category string, tag uint32, format string, args ...any) {
	Crash(category, tag, fmt.Sprintf(format, args...))
}

// Assert crashes with tag if !cond. Used for fatal invariant checks; its
// call site in this module is objref's strong-incremented-from-zero check.
func Assert(category string, tag uint32, cond bool, message string) {
	if !cond {
		Crash(category, tag, message)
	}
}
