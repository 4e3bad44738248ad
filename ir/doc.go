// Package ir provides the tree value exchanged by the grid codec.
//
// # Overview
//
// A Node represents a single value of a YAML/JSON-like document:
//
//   - Atomic types: null, boolean, number, string
//   - Composite types: object (key-value pairs), array (ordered list)
//
// The IR works as a recursive tagged union structure, where values are placed
// in fields depending on the node type.
//
// # Objects
//
// For ObjectType nodes, Fields[i] is the key for the value at Values[i], so
// there will always be the same number of fields as values.  Fields are
// string typed and appear once.  Field order is insertion order and is
// significant: the codec preserves it end to end.
//
// # Numbers
//
// Number values are placed under:
//   - Int64: if it is an integer (64-bit signed)
//   - Float64: if it is a floating point number (64-bit IEEE float)
//   - Number: as a string fallback if neither Int64 nor Float64 can represent it
//
// # Navigating Nodes
//
// Nodes maintain parent-child relationships:
//
//   - Parent: parent node (nil for root)
//   - ParentIndex: index in parent's array/object
//   - ParentField: field name if parent is object
//
// Parent links are for navigation only; a tree is owned from its root.
//
// # Comparison and Hashing
//
//	equal := ir.Compare(a, b) == 0
//	same := ir.Equivalent(a, b) // ignores object field order
//	h := node.Hash()
//
// # Thread Safety
//
// Node structures are not thread-safe.
package ir
