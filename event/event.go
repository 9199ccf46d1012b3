// Package event produces holiday markers for annotating forecast-date
// charts. Respiratory seasons peak around the winter holidays, so the
// manuscript figures flag them on the date axis.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrUnsetDate   = errors.New("unset marker date")
	ErrNoEventName = errors.New("no marker name")
)

// Marker is a single dated annotation on a chart's time axis.
type Marker struct {
	Name string
	Date time.Time
}

func (m *Marker) Valid() error {
	if m.Date.IsZero() {
		return ErrUnsetDate
	}
	if m.Name == "" {
		return ErrNoEventName
	}
	return nil
}

func Christmas(start, end time.Time) []Marker {
	return Holiday(us.ChristmasDay, start, end)
}

func Thanksgiving(start, end time.Time) []Marker {
	return Holiday(us.ThanksgivingDay, start, end)
}

// Holiday returns one marker per observed occurrence of hol within
// [start, end], in the location of start.
func Holiday(hol *cal.Holiday, start, end time.Time) []Marker {
	startLoc := start.Location()

	markers := []Marker{}
	for i := start.Year(); i <= end.Year(); i++ {
		_, observed := hol.Calc(i)
		_, offset := observed.Zone()
		_, startOffset := start.Zone()

		observed = observed.Add(time.Duration(offset) * time.Second).In(startLoc).Add(time.Duration(-startOffset) * time.Second)

		if (observed.After(start) || observed.Equal(start)) && (observed.Before(end) || observed.Equal(end)) {
			markers = append(markers, Marker{
				Name: strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, i), " ", "_"),
				Date: observed,
			})
		}
	}
	return markers
}
