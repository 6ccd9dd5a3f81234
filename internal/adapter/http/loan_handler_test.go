package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "tredgate-loan-portal/internal/domain/loan"
	"tredgate-loan-portal/internal/testutil/kvmock"
	auditUC "tredgate-loan-portal/internal/usecase/audit"
	loanUC "tredgate-loan-portal/internal/usecase/loan"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newServices() (*loanUC.Store, *auditUC.Log) {
	kv := kvmock.New()
	logger := zap.NewNop()
	al := auditUC.NewLog(kv, logger)
	return loanUC.NewStore(kv, al, logger), al
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func seedLoan(t *testing.T, uc *loanUC.Store) *domain.Application {
	t.Helper()
	app, err := uc.Create(context.Background(), loanUC.CreateInput{
		ApplicantName: "Alice", Amount: 50000, TermMonths: 24, InterestRate: 0.08,
	})
	if err != nil {
		t.Fatalf("seed Create err: %v", err)
	}
	return app
}

// -------- tests --------

func TestCreateLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)

	reqBody := map[string]any{
		"applicantName": "Alice",
		"amount":        50000,
		"termMonths":    24,
		"interestRate":  0.08,
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got struct {
		ID                    string  `json:"id"`
		Status                string  `json:"status"`
		MonthlyPayment        float64 `json:"monthlyPayment"`
		AmountDisplay         string  `json:"amountDisplay"`
		RateDisplay           string  `json:"rateDisplay"`
		MonthlyPaymentDisplay string  `json:"monthlyPaymentDisplay"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want pending", got.Status)
	}
	if got.MonthlyPayment != 2250 {
		t.Fatalf("monthlyPayment = %v, want 2250", got.MonthlyPayment)
	}
	if got.AmountDisplay != "$50,000.00" || got.RateDisplay != "8.0%" || got.MonthlyPaymentDisplay != "$2,250.00" {
		t.Fatalf("display fields wrong: %+v", got)
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(`{"applicantName":`)) // broken JSON
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "invalid body" {
		t.Fatalf("error = %q, want %q", er.Error, "invalid body")
	}
}

func TestCreateLoan_ValidationMessagePassedThrough(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)

	reqBody := map[string]any{
		"applicantName": "",
		"amount":        1000,
		"termMonths":    12,
		"interestRate":  0.05,
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "Applicant name is required" {
		t.Fatalf("error = %q, want the service message", er.Error)
	}
}

func TestApproveLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)
	app := seedLoan(t, uc)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+app.ID+"/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(app.ID)

	if err := h.ApproveLoan(c); err != nil {
		t.Fatalf("ApproveLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != string(domain.StatusApproved) {
		t.Fatalf("status = %s, want approved", got.Status)
	}
}

func TestApproveLoan_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)

	const missing = "ffffffffffffffffffffffffffffffff"
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+missing+"/approve", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(missing)

	if err := h.ApproveLoan(c); err != nil {
		t.Fatalf("ApproveLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !strings.Contains(er.Error, missing) {
		t.Fatalf("error %q does not embed the id", er.Error)
	}
}

func TestAutoDecideLoan_Rejects(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)
	app, err := uc.Create(context.Background(), loanUC.CreateInput{
		ApplicantName: "Alice", Amount: 150000, TermMonths: 72, InterestRate: 0.08,
	})
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/"+app.ID+"/auto-decide", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(app.ID)

	if err := h.AutoDecideLoan(c); err != nil {
		t.Fatalf("AutoDecideLoan error: %v", err)
	}
	var got struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != string(domain.StatusRejected) {
		t.Fatalf("status = %s, want rejected", got.Status)
	}
}

func TestDeleteLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)
	app := seedLoan(t, uc)

	req := httptest.NewRequest(stdhttp.MethodDelete, "/loans/"+app.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(app.ID)

	if err := h.DeleteLoan(c); err != nil {
		t.Fatalf("DeleteLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	apps, _ := uc.List(context.Background())
	if len(apps) != 0 {
		t.Fatalf("loan still listed after delete: %+v", apps)
	}
}

func TestListLoans(t *testing.T) {
	e := newEchoWithValidator()
	uc, _ := newServices()
	h := NewLoanHandler(uc)
	seedLoan(t, uc)
	seedLoan(t, uc)

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListLoans(c); err != nil {
		t.Fatalf("ListLoans error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		Count int `json:"count"`
		Loans []struct {
			ID string `json:"id"`
		} `json:"loans"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Count != 2 || len(got.Loans) != 2 {
		t.Fatalf("count = %d loans = %d, want 2/2", got.Count, len(got.Loans))
	}
}
