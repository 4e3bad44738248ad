package ir

import (
	"strconv"
	"strings"
)

// Compact renders y on one line in flow style, for messages and debugging.
func (y *Node) Compact() string {
	buf := &strings.Builder{}
	y.compact(buf)
	return buf.String()
}

func (y *Node) compact(buf *strings.Builder) {
	switch y.Type {
	case ObjectType:
		buf.WriteByte('{')
		for i, f := range y.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(quoteIfNeeded(f.String))
			buf.WriteString(": ")
			y.Values[i].compact(buf)
		}
		buf.WriteByte('}')
	case ArrayType:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteString(", ")
			}
			v.compact(buf)
		}
		buf.WriteByte(']')
	case StringType:
		buf.WriteString(quoteIfNeeded(y.String))
	default:
		buf.WriteString(y.Text())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " ,:{}[]\"'#\n\t") {
		return strconv.Quote(s)
	}
	return s
}
