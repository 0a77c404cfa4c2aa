package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affistack/affiliate_backend/models"
)

// errorStatus maps the engine's error taxonomy to HTTP status codes. The
// services never touch HTTP; this is the only place the mapping lives.
func errorStatus(err error) int {
	var (
		validation *models.ValidationError
		notFound   *models.NotFoundError
		duplicate  *models.DuplicateError
		rule       *models.BusinessRuleError
		transition *models.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &rule):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error as a Response envelope, hiding internals
// behind a generic message for unexpected failures
func respondError(c echo.Context, err error) error {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		message = "Internal server error"
	}
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}
