package event

import (
	"testing"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoliday(t *testing.T) {
	testData := map[string]struct {
		hol      *cal.Holiday
		start    time.Time
		end      time.Time
		expected []Marker
	}{
		"one season window": {
			hol:   us.ChristmasDay,
			start: time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: []Marker{
				{
					"Christmas_Day_2021",
					time.Date(2021, 12, 25, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"two seasons": {
			hol:   us.ThanksgivingDay,
			start: time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: []Marker{
				{
					"Thanksgiving_Day_2021",
					time.Date(2021, 11, 25, 0, 0, 0, 0, time.UTC),
				},
				{
					"Thanksgiving_Day_2022",
					time.Date(2022, 11, 24, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"outside window": {
			hol:      us.ChristmasDay,
			start:    time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: []Marker{},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Holiday(td.hol, td.start, td.end)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestMarkerValid(t *testing.T) {
	testData := map[string]struct {
		marker Marker
		err    error
	}{
		"valid": {
			marker: Marker{Name: "Christmas_Day_2021", Date: time.Date(2021, 12, 25, 0, 0, 0, 0, time.UTC)},
		},
		"no date": {
			marker: Marker{Name: "Christmas_Day_2021"},
			err:    ErrUnsetDate,
		},
		"no name": {
			marker: Marker{Date: time.Date(2021, 12, 25, 0, 0, 0, 0, time.UTC)},
			err:    ErrNoEventName,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.marker.Valid()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
		})
	}
}
