// Package coords is the single normalization boundary for geographic values
// coming off the wire. Everything inward of this package works with a
// validated s2.LatLng; raw string-or-number wire values never travel further.
package coords

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"pipetrack/models"
)

// Normalize validates a raw latitude/longitude pair in degrees.
func Normalize(lat, lng float64) (s2.LatLng, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return s2.LatLng{}, fmt.Errorf("coordinate is not a finite number: %f,%f", lat, lng)
	}
	ll := s2.LatLngFromDegrees(lat, lng)
	if !ll.IsValid() {
		return s2.LatLng{}, fmt.Errorf("coordinate out of range: %f,%f", lat, lng)
	}
	return ll, nil
}

// FromReport extracts the report's pinned location. Reports submitted before
// location capture (or with unparseable values) have no location.
func FromReport(r *models.Report) (s2.LatLng, bool) {
	lat, ok := r.LocationLat.Float64()
	if !ok {
		return s2.LatLng{}, false
	}
	lng, ok := r.LocationLng.Float64()
	if !ok {
		return s2.LatLng{}, false
	}
	ll, err := Normalize(lat, lng)
	if err != nil {
		return s2.LatLng{}, false
	}
	return ll, true
}
