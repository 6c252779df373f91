package pcb

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/chewxy/sexp"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

// expr is an s-expression list under construction. Items are either
// formatted atoms or nested lists.
type expr struct {
	name  string
	items []any
}

func list(name string, items ...any) *expr {
	return &expr{name: name, items: items}
}

func (e *expr) add(items ...any) *expr {
	e.items = append(e.items, items...)
	return e
}

func quote(s string) string { return strconv.Quote(s) }

func xy(name string, p Position) *expr { return list(name, num(p.X), num(p.Y)) }

// nested reports whether any child list has lists of its own. The file
// and its direct items break such lists over several lines; anything
// deeper stays on one line.
func (e *expr) nested() bool {
	for _, it := range e.items {
		if c, ok := it.(*expr); ok && len(c.items) > 0 {
			for _, cc := range c.items {
				if _, ok := cc.(*expr); ok {
					return true
				}
			}
		}
	}
	return false
}

func (e *expr) write(buf *bytes.Buffer, depth int) {
	buf.WriteByte('(')
	buf.WriteString(e.name)
	multi := depth == 0 || (depth == 1 && e.nested())
	for _, it := range e.items {
		switch v := it.(type) {
		case *expr:
			if multi {
				buf.WriteByte('\n')
				buf.WriteString(strings.Repeat("  ", depth+1))
			} else {
				buf.WriteByte(' ')
			}
			v.write(buf, depth+1)
		case string:
			buf.WriteByte(' ')
			buf.WriteString(v)
		}
	}
	if multi {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}
	buf.WriteByte(')')
}

func (e *expr) String() string {
	var buf bytes.Buffer
	e.write(&buf, 0)
	buf.WriteByte('\n')
	return buf.String()
}

// verify parses s back and checks it is a single list.
func verify(kind, s string) error {
	exprs, err := sexp.ParseString(s)
	if err != nil {
		return perr.Wrap(perr.ErrCodeExternalService, err, "emitted %s does not parse", kind)
	}
	if len(exprs) != 1 || exprs[0].IsLeaf() {
		return perr.New(perr.ErrCodeExternalService, "emitted %s has %d top-level expressions", kind, len(exprs))
	}
	return nil
}
