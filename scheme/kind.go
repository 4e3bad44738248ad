package scheme

import "fmt"

// Kind is the closed set of scheme node kinds.
type Kind int

const (
	Map Kind = iota
	Array
	Property
	Key
	Value
	Ignore
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		Map:      "Map",
		Array:    "Array",
		Property: "Property",
		Key:      "Key",
		Value:    "Value",
		Ignore:   "Ignore",
	}[k]
	if ok {
		return s
	}
	return fmt.Sprintf("<kind %d>", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k Kind) IsContainer() bool {
	return k == Map || k == Array
}

// IsLeaf reports whether nodes of kind k never have children.
func (k Kind) IsLeaf() bool {
	switch k {
	case Property, Value, Ignore:
		return true
	}
	return false
}

// HoldsData reports whether nodes of kind k read a data cell.
func (k Kind) HoldsData() bool {
	switch k {
	case Property, Key, Value:
		return true
	}
	return false
}
