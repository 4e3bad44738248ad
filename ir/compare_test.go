package ir

import (
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected int
	}{
		// Type Ranking: Null < Bool < Number < String < Array < Object
		{"Null < Bool", Null(), FromBool(false), -1},
		{"Bool < Number", FromBool(true), FromInt(1), -1},
		{"Number < String", FromInt(1), FromString("a"), -1},
		{"String < Array", FromString("a"), FromSlice(nil), -1},
		{"Array < Object", FromSlice(nil), FromKeyVals(nil), -1},

		{"false < true", FromBool(false), FromBool(true), -1},
		{"true == true", FromBool(true), FromBool(true), 0},

		{"Int < Float", FromInt(1), FromFloat(1.0), -1},
		{"Float < Int by value", FromFloat(1.5), FromInt(2), -1},
		{"Literal by value", &Node{Type: NumberType, Number: "10"}, FromInt(9), 1},
		{"Int < Int", FromInt(1), FromInt(2), -1},
		{"StringNum < StringNum", &Node{Type: NumberType, Number: "1"}, &Node{Type: NumberType, Number: "2"}, -1},

		{"Short Array < Long Array", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(1), FromInt(2)}), -1},
		{"Object Key Comparison",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "b", Val: FromInt(1)}}),
			-1},
		{"Object Value Comparison",
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}}),
			FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(2)}}),
			-1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare(b, a) = %v, want %v", got, -tt.expected)
			}
		})
	}
}

func TestEquivalentIgnoresFieldOrder(t *testing.T) {
	a := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromSlice([]*Node{FromString("x")})},
	})
	b := FromKeyVals([]KeyVal{
		{Key: "b", Val: FromSlice([]*Node{FromString("x")})},
		{Key: "a", Val: FromFloat(1)},
	})
	if d := Difference(a, b); d != "" {
		t.Fatalf("expected equivalent, got %s", d)
	}
	c := FromKeyVals([]KeyVal{{Key: "a", Val: FromInt(1)}})
	if Equivalent(a, c) {
		t.Fatal("expected different key sets to differ")
	}
	d := FromSlice([]*Node{FromInt(2), FromInt(1)})
	e := FromSlice([]*Node{FromInt(1), FromInt(2)})
	if Equivalent(d, e) {
		t.Fatal("array order must be significant")
	}
}

func TestSetAppendRemove(t *testing.T) {
	obj := Object()
	obj.Set("a", FromInt(1))
	obj.Set("b", FromInt(2))
	obj.Set("a", FromInt(3))
	if len(obj.Fields) != 2 || *Get(obj, "a").Int64 != 3 {
		t.Fatalf("unexpected object %s", obj.Compact())
	}
	arr := Array()
	x, y, z := FromInt(1), FromInt(2), FromInt(3)
	arr.Append(x)
	arr.Append(y)
	arr.Append(z)
	if !arr.Remove(y) {
		t.Fatal("remove failed")
	}
	if z.ParentIndex != 1 || arr.Len() != 2 {
		t.Fatalf("bad reindex: %d %d", z.ParentIndex, arr.Len())
	}
	if got := z.Path(); got != "$[1]" {
		t.Errorf("path %q", got)
	}
	if !obj.Remove(Get(obj, "a")) || obj.Fields[0].String != "b" {
		t.Fatalf("object remove: %s", obj.Compact())
	}
}

func TestHashDistinguishesValues(t *testing.T) {
	if FromString("a").Hash() == FromString("b").Hash() {
		t.Error("hash collision on distinct strings")
	}
	if FromInt(1).Hash() != FromInt(1).Hash() {
		t.Error("hash not stable")
	}
	if FromString("1").Hash() == FromInt(1).Hash() {
		t.Error("types must be hashed")
	}
}

func TestReType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"null", NullType},
		{"true", BoolType},
		{"12", NumberType},
		{"1.5", NumberType},
		{"x1", StringType},
	}
	for _, tt := range tests {
		n := FromString(tt.in)
		n.ReType()
		if n.Type != tt.want {
			t.Errorf("%q: got %s want %s", tt.in, n.Type, tt.want)
		}
	}
}
