package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/ski-weather/internal/domain"
)

// Resort is the wire form of domain.Resort. ID is omitted for results that
// were not written to the cache.
type Resort struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	ExternalID string     `json:"externalId,omitempty"`
	Name       string     `json:"name"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Country    string     `json:"country"`
	Region     string     `json:"region"`
	Slug       string     `json:"slug"`
}

// SearchResorts handles GET /api/resorts/search?q=.
// Short or missing queries return 200 with an empty list.
func (s *Server) SearchResorts(w http.ResponseWriter, r *http.Request) {
	q, ok := bindQuery(w, r)
	if !ok {
		return
	}
	resorts, err := s.resorts.Search(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resortsToResponse(resorts))
}

// SearchCachedResorts handles GET /api/resorts/cached?q=.
// Returns 503 when no database is configured.
func (s *Server) SearchCachedResorts(w http.ResponseWriter, r *http.Request) {
	q, ok := bindQuery(w, r)
	if !ok {
		return
	}
	resorts, err := s.resorts.SearchCached(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resortsToResponse(resorts))
}

func bindQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		badRequest(w, "invalid q parameter")
		return "", false
	}
	return q, true
}

// --- mapping helpers --------------------------------------------------------

func resortsToResponse(resorts []domain.Resort) []Resort {
	out := make([]Resort, len(resorts))
	for i, r := range resorts {
		out[i] = Resort{
			ExternalID: r.ExternalID,
			Name:       r.Name,
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			Country:    r.Country,
			Region:     r.Region,
			Slug:       r.Slug,
		}
		if r.ID != uuid.Nil {
			id := r.ID
			out[i].ID = &id
		}
	}
	return out
}
