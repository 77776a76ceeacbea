// Package service contains the business logic of the ski weather API.
// Services validate inputs, call the upstream clients and the resort cache
// through interfaces, and hand pure computation to package forecast.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/ski-weather/internal/domain"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// validationError wraps a validator failure in domain.ErrValidation with a
// short, client-safe message such as "latitude failed lte=90".
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// coordinateParams maps Coordinates fields to their query parameter names.
var coordinateParams = map[string]string{"Latitude": "lat", "Longitude": "lon"}

// coordinateError is validationError for a point, naming fields the way the
// query string does: "lat", or "lat2" with suffix "2".
func coordinateError(err error, suffix string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := coordinateParams[fe.Field()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		msgs = append(msgs, fmt.Sprintf("%s%s failed %s=%s", name, suffix, fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}
