package decode

import "log/slog"

type decodeOpts struct {
	includeEmpty bool
	inferTypes   bool
	logger       *slog.Logger
}

type DecodeOption func(*decodeOpts)

// IncludeEmpty makes empty data cells decode as null instead of being
// omitted.
func IncludeEmpty(v bool) DecodeOption {
	return func(o *decodeOpts) { o.includeEmpty = v }
}

// InferTypes converts string cells holding null, bool or number literals
// into typed values.
func InferTypes(v bool) DecodeOption {
	return func(o *decodeOpts) { o.inferTypes = v }
}

func Logger(l *slog.Logger) DecodeOption {
	return func(o *decodeOpts) {
		if l != nil {
			o.logger = l
		}
	}
}
