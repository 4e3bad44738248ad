package ir

import (
	"cmp"
	"slices"
	"strings"
)

var typeOrder = []Type{NullType, BoolType, NumberType, StringType, ArrayType, ObjectType}

// Compare orders nodes by type, then by value, and returns -1, 0 or +1.
// Numbers compare by numeric value with ties broken by representation
// (integer, float, literal), so 1 and 1.0 are distinct.  Arrays compare
// element-wise and objects field by field in order, the shorter first on a
// common prefix.  A nil node sorts first.
func Compare(a, b *Node) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(slices.Index(typeOrder, a.Type), slices.Index(typeOrder, b.Type)); c != 0 {
		return c
	}
	switch a.Type {
	case BoolType:
		return cmp.Compare(boolRank(a.Bool), boolRank(b.Bool))
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case ArrayType:
		return compareChildren(nil, nil, a.Values, b.Values)
	case ObjectType:
		return compareChildren(a.Fields, b.Fields, a.Values, b.Values)
	}
	return 0
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func compareNumbers(a, b *Node) int {
	af, aok := a.float()
	bf, bok := b.float()
	if aok && bok {
		if c := cmp.Compare(af, bf); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(numberRepr(a), numberRepr(b)); c != 0 {
		return c
	}
	return strings.Compare(a.Number, b.Number)
}

func numberRepr(n *Node) int {
	switch {
	case n.Int64 != nil:
		return 0
	case n.Float64 != nil:
		return 1
	}
	return 2
}

// compareChildren compares children pairwise, each key before its value
// when keys are given.
func compareChildren(ak, bk, av, bv []*Node) int {
	for i := range min(len(av), len(bv)) {
		if ak != nil {
			if c := Compare(ak[i], bk[i]); c != 0 {
				return c
			}
		}
		if c := Compare(av[i], bv[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(av), len(bv))
}
