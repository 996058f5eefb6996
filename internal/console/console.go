// Package console provides the small timestamped, prefix-stack output
// sink shared by the driver and reporter. It plays the role the
// teacher's lib/consoles.Console interface plays for archer: one place
// that knows how to format a line, so nothing else reaches for
// fmt.Printf directly.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Console is the sink for human-facing output. Implementations decide
// formatting; callers only ever call Printf.
type Console interface {
	Printf(format string, a ...any)

	PushPrefix(format string, a ...any)
	PopPrefix()
}

type stdConsole struct {
	w        io.Writer
	prefixes []string
}

// New returns a Console that writes timestamped, prefix-decorated
// lines to w.
func New(w io.Writer) Console {
	return &stdConsole{w: w}
}

func (c *stdConsole) Printf(format string, a ...any) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(time.Now().Format("15:04:05"))
	b.WriteString("] ")
	for _, p := range c.prefixes {
		b.WriteString(p)
	}
	fmt.Fprintf(&b, format, a...)
	fmt.Fprint(c.w, b.String())
}

func (c *stdConsole) PushPrefix(format string, a ...any) {
	c.prefixes = append(c.prefixes, fmt.Sprintf(format, a...))
}

func (c *stdConsole) PopPrefix() {
	if len(c.prefixes) == 0 {
		return
	}
	c.prefixes = c.prefixes[:len(c.prefixes)-1]
}
