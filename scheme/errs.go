package scheme

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaViolation = errors.New("schema violation")
	ErrDuplicateName   = errors.New("duplicate container name")
)

// Error locates a fatal scheme problem.  Err is one of the package
// sentinels.
type Error struct {
	Err      error
	Kind     Kind
	Row, Col int
	Path     string
	Message  string
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("%s at R%dC%d", e.Kind, e.Row+1, e.Col+1)
	if e.Path != "" {
		loc += " (" + e.Path + ")"
	}
	return fmt.Sprintf("%s: %s: %s", e.Err, loc, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error for node i of t.
func (t *Tree) Errorf(sentinel error, i int, format string, args ...any) *Error {
	n := &t.Nodes[i]
	return &Error{
		Err:     sentinel,
		Kind:    n.Kind,
		Row:     n.Row,
		Col:     n.Col,
		Path:    t.Path(i),
		Message: fmt.Sprintf(format, args...),
	}
}

type WarningKind int

const (
	// ArrayInArray flags an unnamed array directly inside an array.
	ArrayInArray WarningKind = iota
	// MergeConflict flags a shape clash resolved while unifying values.
	MergeConflict
	// DroppedValue flags a value with no place in a layout.
	DroppedValue
)

func (k WarningKind) String() string {
	switch k {
	case ArrayInArray:
		return "array-in-array"
	case MergeConflict:
		return "merge-conflict"
	case DroppedValue:
		return "dropped-value"
	}
	return "warning"
}

func (k WarningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Warning is a non fatal finding of either codec direction.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Path    string      `json:"path"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %s: %s", w.Kind, w.Path, w.Message)
}
