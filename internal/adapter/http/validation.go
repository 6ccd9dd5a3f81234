package http

import (
	"github.com/go-playground/validator/v10"

	domainAudit "tredgate-loan-portal/internal/domain/audit"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// audit action types are a closed set
	_ = v.RegisterValidation("actiontype", func(fl validator.FieldLevel) bool {
		switch domainAudit.ActionType(fl.Field().String()) {
		case domainAudit.ActionCreate, domainAudit.ActionApprove, domainAudit.ActionReject,
			domainAudit.ActionAutoDecide, domainAudit.ActionDelete:
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "actiontype":
			out = append(out, FieldError{Field: field, Message: "must be one of create, approve, reject, auto-decide, delete"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
