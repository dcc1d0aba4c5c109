// Package obslog is the ambient logging layer: a small set of named
// categories, each a thin wrapper over the standard library's log.Logger,
// grounded on the category-based file logger pattern of the architectural
// teacher's internal/logging package (simplified to the categories this
// reasoner actually has: parsing, the cycle driver, the resolver, the
// fuzzy layer, the matcher, chat, and the CLI itself).
package obslog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Category is a named logging channel.
type Category struct {
	name string
}

var (
	Parser   = Category{"parser"}
	Reasoner = Category{"reasoner"}
	Resolver = Category{"resolver"}
	Fuzzy    = Category{"fuzzy"}
	Matcher  = Category{"matcher"}
	Chat     = Category{"chat"}
	CLI      = Category{"cli"}
)

var (
	mu      sync.Mutex
	loggers = map[string]*log.Logger{}
	out     io.Writer = os.Stderr
	// debug gates Debugf output; off by default, toggled by -t/--trace.
	debug bool
)

// SetOutput redirects every category's output, primarily for tests that
// want to assert on warning text.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	loggers = map[string]*log.Logger{}
}

// SetDebug toggles Debugf emission, wired to the CLI's -t/--trace flag.
func SetDebug(on bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = on
}

func loggerFor(c Category) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c.name]; ok {
		return l
	}
	l := log.New(out, fmt.Sprintf("[%s] ", c.name), log.LstdFlags)
	loggers[c.name] = l
	return l
}

// Infof logs an informational line for category c.
func (c Category) Infof(format string, args ...interface{}) {
	loggerFor(c).Printf("INFO "+format, args...)
}

// Warnf logs a warning. Per §7's error taxonomy, almost every recoverable
// condition in this reasoner is reported through Warnf rather than
// returned as a Go error.
func (c Category) Warnf(format string, args ...interface{}) {
	loggerFor(c).Printf("WARN "+format, args...)
}

// Errorf logs an error that did not rise to a fatal parse error.
func (c Category) Errorf(format string, args ...interface{}) {
	loggerFor(c).Printf("ERROR "+format, args...)
}

// Debugf logs a trace-level line, emitted only when SetDebug(true) has been
// called (the -t/--trace CLI flag).
func (c Category) Debugf(format string, args ...interface{}) {
	mu.Lock()
	on := debug
	mu.Unlock()
	if !on {
		return
	}
	loggerFor(c).Printf("DEBUG "+format, args...)
}
