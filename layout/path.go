package layout

import (
	"strconv"
	"strings"
)

// Data paths address the column of one scalar.  "[]" is the row driven
// index: the element of a sequence root, or of an array expanded
// downward.  "[i]" is a horizontal position and ".name" a field, quoted
// when it is not a plain word.

func FieldPath(prefix, name string) string {
	return prefix + "." + quoteName(name)
}

func IndexPath(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

func RowPath(prefix string) string {
	return prefix + "[]"
}

// KeyPath and ValuePath address the j-th pair of a keyed object.
func KeyPath(prefix string, j int) string {
	return prefix + ".$key[" + strconv.Itoa(j) + "]"
}

func ValuePath(prefix string, j int) string {
	return prefix + ".$value[" + strconv.Itoa(j) + "]"
}

func quoteName(name string) string {
	if name == "" || strings.ContainsAny(name, ".[]\"$ \t\n") {
		return strconv.Quote(name)
	}
	return name
}
