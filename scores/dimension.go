package scores

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDimension   = errors.New("unknown grouping dimension")
	ErrDuplicateDimension = errors.New("duplicate grouping dimension")
)

// Dimension is one axis a score table can be partitioned on before
// aggregation. The set is closed; unknown tokens are rejected at the boundary
// instead of being passed through as free-form column names.
type Dimension string

const (
	DimSeason       Dimension = "season"
	DimHorizon      Dimension = "horizon"
	DimForecastWeek Dimension = "forecast_week"
	DimLocation     Dimension = "location"
)

func (d Dimension) String() string { return string(d) }

func (d Dimension) Valid() error {
	switch d {
	case DimSeason, DimHorizon, DimForecastWeek, DimLocation:
		return nil
	}
	return fmt.Errorf("%q, %w", d, ErrUnknownDimension)
}

// ParseDimensions validates a list of grouping tokens into an ordered
// dimension list. Order is preserved since it determines the partition sort
// order of the aggregated output.
func ParseDimensions(tokens []string) ([]Dimension, error) {
	dims := make([]Dimension, 0, len(tokens))
	seen := make(map[Dimension]struct{}, len(tokens))
	for _, tok := range tokens {
		d := Dimension(tok)
		if err := d.Valid(); err != nil {
			return nil, err
		}
		if _, ok := seen[d]; ok {
			return nil, fmt.Errorf("%q, %w", tok, ErrDuplicateDimension)
		}
		seen[d] = struct{}{}
		dims = append(dims, d)
	}
	return dims, nil
}

// HasDimension reports whether dim is present in dims.
func HasDimension(dims []Dimension, dim Dimension) bool {
	for _, d := range dims {
		if d == dim {
			return true
		}
	}
	return false
}
