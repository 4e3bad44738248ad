package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/signadot/gridtree/ir"
)

// Decode parses a single YAML or JSON document, keeping mapping key order.
func Decode(d []byte, f Format) (*ir.Node, error) {
	docs, err := DecodeAll(d, f)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return ir.Null(), nil
	case 1:
		return docs[0], nil
	}
	return nil, fmt.Errorf("%w: expected one document, got %d", ErrBadFormat, len(docs))
}

// DecodeAll parses every document of a YAML stream.  JSON input holds one.
func DecodeAll(d []byte, f Format) ([]*ir.Node, error) {
	if !f.IsText() {
		return nil, fmt.Errorf("%w: %s is not a text format", ErrBadFormat, f)
	}
	dec := yaml.NewDecoder(bytes.NewReader(d), yaml.UseOrderedMap())
	var res []*ir.Node
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not decode %s: %w", f, err)
		}
		n, err := FromAny(v)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

// FromAny converts a decoded YAML value into a tree.
func FromAny(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case yaml.MapSlice:
		res := ir.Object()
		for _, item := range x {
			val, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(keyString(item.Key), val)
		}
		return res, nil
	case map[string]any:
		res := ir.Object()
		for k, val := range x {
			n, err := FromAny(val)
			if err != nil {
				return nil, err
			}
			res.Set(k, n)
		}
		return res, nil
	case []any:
		res := ir.Array()
		for _, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res.Append(n)
		}
		return res, nil
	case string:
		return ir.FromString(x), nil
	case bool:
		return ir.FromBool(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return &ir.Node{Type: ir.NumberType, Number: strconv.FormatUint(x, 10)}, nil
		}
		return ir.FromInt(int64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	case fmt.Stringer:
		return ir.FromString(x.String()), nil
	}
	return nil, fmt.Errorf("%w: unsupported value %T", ErrBadFormat, v)
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// ToAny converts a tree into values the YAML encoder renders in order.
func ToAny(n *ir.Node) any {
	switch n.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(n.Fields))
		for i, f := range n.Fields {
			res[i] = yaml.MapItem{Key: f.String, Value: ToAny(n.Values[i])}
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToAny(v)
		}
		return res
	case ir.StringType:
		return n.String
	case ir.BoolType:
		return n.Bool
	case ir.NumberType:
		switch {
		case n.Int64 != nil:
			return *n.Int64
		case n.Float64 != nil:
			return *n.Float64
		}
		if i, err := strconv.ParseInt(n.Number, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n.Number, 64); err == nil {
			return f
		}
		return n.Number
	}
	return nil
}

// Encode renders n as YAML or JSON.
func Encode(n *ir.Node, f Format) ([]byte, error) {
	var (
		d   []byte
		err error
	)
	switch f {
	case YAMLFormat:
		d, err = yaml.Marshal(ToAny(n))
	case JSONFormat:
		d, err = yaml.MarshalWithOptions(ToAny(n), yaml.JSON())
	default:
		return nil, fmt.Errorf("%w: %s is not a text format", ErrBadFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("could not encode %s: %w", f, err)
	}
	return d, nil
}

// EncodeAll renders documents as one stream, separated by "---" in YAML.
// JSON output puts one document per line.
func EncodeAll(w io.Writer, docs []*ir.Node, f Format) error {
	for i, doc := range docs {
		d, err := Encode(doc, f)
		if err != nil {
			return err
		}
		if i > 0 && f == YAMLFormat {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(d); err != nil {
			return err
		}
		if len(d) > 0 && d[len(d)-1] != '\n' {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
