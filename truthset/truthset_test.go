package truthset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignAndAverage(t *testing.T) {
	testData := map[string]struct {
		obs      []Observation
		start    time.Time
		end      time.Time
		expected *Series
		err      error
	}{
		"empty": {
			expected: &Series{T: []time.Time{}, V: []float64{}},
		},
		"lag shift": {
			obs: []Observation{
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), 100},
			},
			expected: &Series{
				T: []time.Time{time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC)},
				V: []float64{100},
			},
		},
		"window filters on shifted date": {
			obs: []Observation{
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), 100},
				{time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC), 200},
				{time.Date(2022, 1, 24, 0, 0, 0, 0, time.UTC), 300},
			},
			start: time.Date(2022, 1, 12, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2022, 1, 19, 0, 0, 0, 0, time.UTC),
			expected: &Series{
				T: []time.Time{time.Date(2022, 1, 12, 0, 0, 0, 0, time.UTC)},
				V: []float64{200},
			},
		},
		"window bounds inclusive": {
			obs: []Observation{
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), 100},
				{time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC), 200},
			},
			start: time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2022, 1, 12, 0, 0, 0, 0, time.UTC),
			expected: &Series{
				T: []time.Time{
					time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
					time.Date(2022, 1, 12, 0, 0, 0, 0, time.UTC),
				},
				V: []float64{100, 200},
			},
		},
		"duplicate dates averaged": {
			obs: []Observation{
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), 100},
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), 300},
			},
			expected: &Series{
				T: []time.Time{time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC)},
				V: []float64{200},
			},
		},
		"result sorted ascending": {
			obs: []Observation{
				{time.Date(2022, 1, 24, 0, 0, 0, 0, time.UTC), 300},
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), 100},
				{time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC), 200},
			},
			expected: &Series{
				T: []time.Time{
					time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
					time.Date(2022, 1, 12, 0, 0, 0, 0, time.UTC),
					time.Date(2022, 1, 19, 0, 0, 0, 0, time.UTC),
				},
				V: []float64{100, 200, 300},
			},
		},
		"negative value": {
			obs: []Observation{
				{time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC), -1},
			},
			err: ErrNegativeValue,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := AlignAndAverage(td.obs, td.start, td.end)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, s)
		})
	}
}

func TestSeriesBounds(t *testing.T) {
	var empty Series
	assert.True(t, empty.StartTime().IsZero())
	assert.True(t, empty.EndTime().IsZero())

	s := Series{
		T: []time.Time{
			time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		V: []float64{1, 2},
	}
	assert.Equal(t, s.T[0], s.StartTime())
	assert.Equal(t, s.T[1], s.EndTime())

	c := s.Copy()
	assert.Equal(t, &s, c)
	c.V[0] = 10
	assert.Equal(t, 1.0, s.V[0])
}
