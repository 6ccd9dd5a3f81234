package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainAudit "tredgate-loan-portal/internal/domain/audit"
	"tredgate-loan-portal/internal/usecase/audit"
)

type AuditHandler struct{ uc *audit.Log }

func NewAuditHandler(uc *audit.Log) *AuditHandler { return &AuditHandler{uc: uc} }

type listAuditReq struct {
	ActionTypes []string `query:"action_type" validate:"dive,actiontype"`
	Search      string   `query:"search"`
}

// ListEntries returns the filtered log newest first. Reversal is display
// order only; storage stays oldest first.
func (h *AuditHandler) ListEntries(c echo.Context) error {
	var req listAuditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	entries, err := h.uc.GetAll(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}

	types := make([]domainAudit.ActionType, 0, len(req.ActionTypes))
	for _, t := range req.ActionTypes {
		types = append(types, domainAudit.ActionType(t))
	}
	filtered := audit.Filter(entries, domainAudit.Criteria{
		ActionTypes: types,
		SearchText:  req.Search,
	})

	// newest first for display
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"entries":    filtered,
		"count":      len(filtered),
		"maxEntries": h.uc.MaxEntries(),
	})
}

func (h *AuditHandler) ClearEntries(c echo.Context) error {
	if err := h.uc.Clear(c.Request().Context()); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
