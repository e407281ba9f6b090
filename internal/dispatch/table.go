package dispatch

import (
	"sort"
	"strings"

	"github.com/mattjoyce/ucikit/internal/args"
)

// Handler runs one command.
type Handler func(ctx *Context) error

// Context is the read-only view a handler gets of its input line.
type Context struct {
	name      string
	remainder string
}

// NewContext builds a Context for the command name with its argument text.
func NewContext(name, remainder string) *Context {
	return &Context{name: name, remainder: remainder}
}

// Name is the command word that selected the handler.
func (c *Context) Name() string { return c.name }

// Remainder is the argument text after the command word.
func (c *Context) Remainder() string { return c.remainder }

// Args returns a fresh reader over the argument text.
func (c *Context) Args() *args.Reader { return args.New(c.remainder) }

// Table holds the registered commands. It is owned by the main loop and is
// not safe for concurrent mutation.
type Table struct {
	handlers map[string]Handler
}

func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

// Register installs h under name, replacing any earlier handler.
func (t *Table) Register(name string, h Handler) {
	t.handlers[name] = h
}

func (t *Table) Lookup(name string) (Handler, bool) {
	h, ok := t.handlers[name]
	return h, ok
}

// Names lists registered commands in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.handlers))
	for n := range t.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SplitCommand returns the first word of line and the text after it, with the
// separating whitespace skipped.
func SplitCommand(line string) (name, remainder string) {
	r := args.New(strings.TrimRight(line, "\r\n"))
	name = r.ReadWord()
	r.SkipWhitespace()
	return name, r.PeekRemainder()
}
