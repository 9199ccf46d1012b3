package hubeval

import "math"

// RelKind tags the outcome of a baseline-relative skill computation.
type RelKind int

const (
	// RelRatio is a plain score/baseline ratio. The value may be +Inf when
	// the baseline mean is zero but the model's is not.
	RelRatio RelKind = iota
	// RelMatchedZero marks a zero score against a zero baseline, reported as
	// a ratio of exactly 1 rather than 0/0.
	RelMatchedZero
	// RelUndefined marks a group with no matching baseline partition. The
	// row is kept; the relative metric carries no number.
	RelUndefined
)

// Relative is a tagged baseline-relative skill ratio. It makes the zero
// baseline cases explicit instead of letting 0/0 surface as NaN.
type Relative struct {
	Kind  RelKind
	Value float64
}

// NewRelative classifies val against the baseline mean base. base and val
// must be non-negative means of non-negative scores.
func NewRelative(val, base float64) Relative {
	if base != 0 {
		return Relative{Kind: RelRatio, Value: val / base}
	}
	if val == 0 {
		return Relative{Kind: RelMatchedZero}
	}
	return Relative{Kind: RelRatio, Value: math.Inf(1)}
}

// Undefined returns the Relative for a missing baseline partition.
func Undefined() Relative {
	return Relative{Kind: RelUndefined}
}

// Float64 collapses the tagged value to a number: the ratio, exactly 1 for a
// matched zero, or NaN when undefined.
func (r Relative) Float64() float64 {
	switch r.Kind {
	case RelMatchedZero:
		return 1
	case RelUndefined:
		return math.NaN()
	}
	return r.Value
}

func (r Relative) Defined() bool {
	return r.Kind != RelUndefined
}

func (r Relative) IsInf() bool {
	return r.Kind == RelRatio && math.IsInf(r.Value, 1)
}

func (r Relative) round(decimals int) Relative {
	if r.Kind != RelRatio || math.IsInf(r.Value, 1) {
		return r
	}
	r.Value = roundTo(r.Value, decimals)
	return r
}
