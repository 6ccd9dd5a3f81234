package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	domain "tredgate-loan-portal/internal/domain/loan"
)

// writeDomainError maps service-layer errors onto HTTP codes, passing the
// error message through for the UI to display.
func writeDomainError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: nf.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// ---- test helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
