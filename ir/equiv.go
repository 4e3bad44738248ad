package ir

import (
	"fmt"
	"strconv"
)

// Equivalent reports whether a and b hold the same scalars under the same
// key sets, ignoring the order of object fields.  Array order is significant.
func Equivalent(a, b *Node) bool {
	return Difference(a, b) == ""
}

// Difference describes the first place where a and b are not Equivalent, or
// returns "" when they are.
func Difference(a, b *Node) string {
	return difference("$", a, b)
}

func difference(path string, a, b *Node) string {
	if a == nil || b == nil {
		if a == b {
			return ""
		}
		return fmt.Sprintf("%s: missing node", path)
	}
	if a.Type != b.Type {
		return fmt.Sprintf("%s: type %s vs %s", path, a.Type, b.Type)
	}
	switch a.Type {
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return fmt.Sprintf("%s: %d fields vs %d", path, len(a.Fields), len(b.Fields))
		}
		for i, f := range a.Fields {
			bv := Get(b, f.String)
			if bv == nil {
				return fmt.Sprintf("%s: field %q missing", path, f.String)
			}
			if d := difference(path+"."+f.String, a.Values[i], bv); d != "" {
				return d
			}
		}
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return fmt.Sprintf("%s: %d elements vs %d", path, len(a.Values), len(b.Values))
		}
		for i := range a.Values {
			if d := difference(path+"["+strconv.Itoa(i)+"]", a.Values[i], b.Values[i]); d != "" {
				return d
			}
		}
	case NumberType:
		if !sameNumber(a, b) {
			return fmt.Sprintf("%s: %s vs %s", path, a.Text(), b.Text())
		}
	default:
		if Compare(a, b) != 0 {
			return fmt.Sprintf("%s: %s vs %s", path, a.Text(), b.Text())
		}
	}
	return ""
}

func sameNumber(a, b *Node) bool {
	af, aok := a.float()
	bf, bok := b.float()
	if aok && bok {
		return af == bf
	}
	return a.Text() == b.Text()
}

func (y *Node) float() (float64, bool) {
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	return f, err == nil
}
