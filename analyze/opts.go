package analyze

import "log/slog"

// Thresholds tunes the analysis heuristics.  The defaults are empirical.
type Thresholds struct {
	// RequiredRatio is the occurrence ratio above which a field is
	// required.
	RequiredRatio float64 `json:"requiredRatio"`
	// KeyedMinKeys and KeyedMaxRatio bound dictionary detection.
	KeyedMinKeys  int     `json:"keyedMinKeys"`
	KeyedMaxRatio float64 `json:"keyedMaxRatio"`
	// PerIndexGain is how much more similar same-index elements across
	// instances must be than neighbours within an instance to switch an
	// array to per-index layout.
	PerIndexGain float64 `json:"perIndexGain"`
	// An array requires multiple rows when it has more than MultiRowSize
	// elements, or varies in structure and is wider than MultiRowWidth.
	MultiRowSize  int `json:"multiRowSize"`
	MultiRowWidth int `json:"multiRowWidth"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RequiredRatio: 0.8,
		KeyedMinKeys:  6,
		KeyedMaxRatio: 0.5,
		PerIndexGain:  0.25,
		MultiRowSize:  10,
		MultiRowWidth: 50,
	}
}

type analyzeOpts struct {
	th     Thresholds
	logger *slog.Logger
}

type AnalyzeOption func(*analyzeOpts)

func WithThresholds(th Thresholds) AnalyzeOption {
	return func(o *analyzeOpts) { o.th = th }
}

func Logger(l *slog.Logger) AnalyzeOption {
	return func(o *analyzeOpts) {
		if l != nil {
			o.logger = l
		}
	}
}
