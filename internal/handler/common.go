package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	apperrors "worktrack/internal/errors"
)

const dateLayout = "2006-01-02"

// httpError translates a service error into an Echo HTTP error.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// parseDate parses an optional yyyy-mm-dd form value into a nullable time.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
