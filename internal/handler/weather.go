package handler

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/ski-weather/internal/domain"
)

// GetWeather handles GET /api/weather?lat=&lon=.
func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	at, err := bindCoordinates(r, "lat", "lon")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	rec, err := s.weather.Forecast(r.Context(), at)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CompareWeather handles GET /api/weather/compare?lat1=&lon1=&lat2=&lon2=.
func (s *Server) CompareWeather(w http.ResponseWriter, r *http.Request) {
	a, err := bindCoordinates(r, "lat1", "lon1")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	b, err := bindCoordinates(r, "lat2", "lon2")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	cmp, err := s.weather.Compare(r.Context(), a, b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// bindCoordinates reads two required numeric query parameters.
// Range checks belong to the service.
func bindCoordinates(r *http.Request, latName, lonName string) (domain.Coordinates, error) {
	var at domain.Coordinates
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, latName, query, &at.Latitude); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%s must be a number", latName)
	}
	if err := runtime.BindQueryParameter("form", true, true, lonName, query, &at.Longitude); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%s must be a number", lonName)
	}
	return at, nil
}
