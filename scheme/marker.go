package scheme

import "strings"

// Marker tokens.  These literal texts are the contract with anything that
// authors or renders scheme grids.
const (
	MarkArray     = "$[]"
	MarkMap       = "${}"
	MarkIgnore    = "^"
	MarkKey       = "$key"
	MarkValue     = "$value"
	MarkSchemeEnd = "$scheme_end"
)

// ParseMarker classifies the text of a scheme cell.  A name may prefix the
// container markers ("items$[]"); any other text is a Property name.
func ParseMarker(text string) (Kind, string) {
	text = strings.TrimSpace(text)
	switch text {
	case MarkIgnore:
		return Ignore, ""
	case MarkKey:
		return Key, ""
	case MarkValue:
		return Value, ""
	}
	if name, ok := strings.CutSuffix(text, MarkArray); ok {
		return Array, name
	}
	if name, ok := strings.CutSuffix(text, MarkMap); ok {
		return Map, name
	}
	return Property, text
}

// IsSchemeEnd reports whether text terminates the scheme region.
func IsSchemeEnd(text string) bool {
	return strings.TrimSpace(text) == MarkSchemeEnd
}

// Marker returns the cell text for a node of kind k named name.  It is the
// inverse of ParseMarker.
func Marker(k Kind, name string) string {
	switch k {
	case Map:
		return name + MarkMap
	case Array:
		return name + MarkArray
	case Key:
		return MarkKey
	case Value:
		if name == "" {
			return MarkValue
		}
		return name
	case Ignore:
		return MarkIgnore
	default:
		return name
	}
}
