package ir

import "errors"

var (
	ErrNotContainer = errors.New("not a container")
	ErrNotScalar    = errors.New("not a scalar")
)
