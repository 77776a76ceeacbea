// Package domain contains the core data types for the ski weather API.
// This package has no dependencies beyond google/uuid and is imported by every
// other internal package (repo, service, handler, forecast, openmeteo).
package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Coordinates is a point on the globe in decimal degrees.
// The validate tags are checked by the service layer with go-playground/validator.
type Coordinates struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// Resort is a ski area that can be looked up for weather.
// ID is the surrogate key of the resorts cache table and is uuid.Nil for
// results that have not been cached. ExternalID is the upstream geocoding id.
type Resort struct {
	ID         uuid.UUID
	ExternalID string
	Name       string  `validate:"required"`
	Latitude   float64 `validate:"gte=-90,lte=90"`
	Longitude  float64 `validate:"gte=-180,lte=180"`
	Country    string
	Region     string // state / province; empty when unknown
	Slug       string
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
// "Sunday River, Maine" → "sunday-river-maine".
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
