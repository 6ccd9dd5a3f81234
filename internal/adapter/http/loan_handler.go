package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "tredgate-loan-portal/internal/domain/loan"
	"tredgate-loan-portal/internal/usecase/loan"
	"tredgate-loan-portal/pkg/format"
)

type LoanHandler struct{ uc *loan.Store }

func NewLoanHandler(uc *loan.Store) *LoanHandler { return &LoanHandler{uc: uc} }

// loanRow is one display row: the stored record plus the derived payment and
// the formatted strings the UI renders.
type loanRow struct {
	domain.Application
	MonthlyPayment        float64 `json:"monthlyPayment"`
	AmountDisplay         string  `json:"amountDisplay"`
	RateDisplay           string  `json:"rateDisplay"`
	CreatedAtDisplay      string  `json:"createdAtDisplay"`
	MonthlyPaymentDisplay string  `json:"monthlyPaymentDisplay"`
}

func toRow(a domain.Application) loanRow {
	return loanRow{
		Application:           a,
		MonthlyPayment:        a.MonthlyPayment(),
		AmountDisplay:         format.Currency(a.Amount),
		RateDisplay:           format.Percent(a.InterestRate),
		CreatedAtDisplay:      format.Date(a.CreatedAt),
		MonthlyPaymentDisplay: format.Currency(a.MonthlyPayment()),
	}
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	apps, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	rows := make([]loanRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, toRow(a))
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": rows, "count": len(rows)})
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loan.CreateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	app, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, toRow(*app))
}

func (h *LoanHandler) ApproveLoan(c echo.Context) error {
	return h.setStatus(c, domain.StatusApproved)
}

func (h *LoanHandler) RejectLoan(c echo.Context) error {
	return h.setStatus(c, domain.StatusRejected)
}

func (h *LoanHandler) setStatus(c echo.Context, status domain.Status) error {
	loanID := c.Param("id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	app, err := h.uc.SetStatus(c.Request().Context(), loanID, status)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, toRow(*app))
}

func (h *LoanHandler) AutoDecideLoan(c echo.Context) error {
	loanID := c.Param("id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	app, err := h.uc.AutoDecide(c.Request().Context(), loanID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, toRow(*app))
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	loanID := c.Param("id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	if err := h.uc.Delete(c.Request().Context(), loanID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
