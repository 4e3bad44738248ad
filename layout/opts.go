package layout

import "log/slog"

// Thresholds tunes strategy selection and planning.
type Thresholds struct {
	// LargeArrayWidth is the unified element width above which a nested
	// array counts as large.
	LargeArrayWidth int `json:"largeArrayWidth"`
	// LargeTotalElements is the nested element count above which large
	// arrays force horizontal expansion.
	LargeTotalElements int `json:"largeTotalElements"`
	// GroupKeyRatio bounds distinct/total for a group key candidate.
	GroupKeyRatio float64 `json:"groupKeyRatio"`
	// MaxColumns is the widest grid a plan may produce.
	MaxColumns int `json:"maxColumns"`
}

// MaxColumns is the column limit of xlsx sheets.
const MaxColumns = 16384

func DefaultThresholds() Thresholds {
	return Thresholds{
		LargeArrayWidth:    3,
		LargeTotalElements: 5,
		GroupKeyRatio:      0.5,
		MaxColumns:         MaxColumns,
	}
}

type buildOpts struct {
	th     Thresholds
	rule   *Rule
	logger *slog.Logger
}

type BuildOption func(*buildOpts)

func WithThresholds(th Thresholds) BuildOption {
	return func(o *buildOpts) { o.th = th }
}

// WithRule makes Auto consult r before the built-in decision order.
func WithRule(r *Rule) BuildOption {
	return func(o *buildOpts) { o.rule = r }
}

func Logger(l *slog.Logger) BuildOption {
	return func(o *buildOpts) {
		if l != nil {
			o.logger = l
		}
	}
}

func newBuildOpts(opts []BuildOption) *buildOpts {
	o := &buildOpts{th: DefaultThresholds(), logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
