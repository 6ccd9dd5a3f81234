package loan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domainAudit "tredgate-loan-portal/internal/domain/audit"
	domain "tredgate-loan-portal/internal/domain/loan"
	"tredgate-loan-portal/internal/storage"
	auditUC "tredgate-loan-portal/internal/usecase/audit"
	"tredgate-loan-portal/pkg/format"
	"tredgate-loan-portal/pkg/id"
)

const (
	// StorageKey is the slot holding the loan collection, insertion order.
	StorageKey = "tredgate_loans"

	// Auto-decision bounds, both inclusive: within both means approve,
	// over either means reject.
	MaxAutoApproveAmount     = 100_000.0
	MaxAutoApproveTermMonths = 60
)

// AuditRecorder is the slice of the audit log the loan store needs: one
// append per successful mutation.
type AuditRecorder interface {
	Append(ctx context.Context, in auditUC.AppendInput) (*domainAudit.Entry, error)
}

// Store owns the canonical loan collection: validation, status transitions,
// deletion, and the matching audit entry for every mutation. Each operation
// reads the whole slot, mutates in memory, and writes the whole slot back.
type Store struct {
	kv     storage.Store
	audit  AuditRecorder
	logger *zap.Logger
}

func NewStore(kv storage.Store, recorder AuditRecorder, logger *zap.Logger) *Store {
	return &Store{kv: kv, audit: recorder, logger: logger}
}

// CreateInput is the raw creation payload; InterestRate is fractional
// (0.08 = 8%).
type CreateInput struct {
	ApplicantName string  `json:"applicantName"`
	Amount        float64 `json:"amount"`
	TermMonths    int     `json:"termMonths"`
	InterestRate  float64 `json:"interestRate"`
}

// List returns the full collection in insertion order. A missing slot is an
// empty collection; an unparsable slot is logged and also treated as empty.
func (s *Store) List(ctx context.Context) ([]domain.Application, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read loans slot: %w", err)
	}
	if !ok {
		return []domain.Application{}, nil
	}
	var apps []domain.Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		s.logger.Warn("loans slot unparsable, treating as empty",
			zap.String("key", StorageKey), zap.Error(err))
		return []domain.Application{}, nil
	}
	return apps, nil
}

// Create validates the input in order, failing fast on the first violation,
// then persists a new pending application and records a create audit entry.
func (s *Store) Create(ctx context.Context, in CreateInput) (*domain.Application, error) {
	name := strings.TrimSpace(in.ApplicantName)
	if name == "" {
		return nil, &domain.ValidationError{Message: "Applicant name is required"}
	}
	if in.Amount <= 0 {
		return nil, &domain.ValidationError{Message: "Amount must be positive"}
	}
	if in.TermMonths <= 0 {
		return nil, &domain.ValidationError{Message: "Term must be positive"}
	}
	if in.InterestRate < 0 {
		return nil, &domain.ValidationError{Message: "Interest rate cannot be negative"}
	}

	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	app := domain.Application{
		ID:            id.NewID32(),
		ApplicantName: name,
		Amount:        in.Amount,
		TermMonths:    in.TermMonths,
		InterestRate:  in.InterestRate,
		Status:        domain.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	apps = append(apps, app)
	if err := s.persist(ctx, apps); err != nil {
		return nil, err
	}

	if err := s.record(ctx, &app, domainAudit.ActionCreate, nil, statusPtr(app.Status),
		fmt.Sprintf("Application created for %s over %d months", format.Currency(app.Amount), app.TermMonths)); err != nil {
		return nil, err
	}
	return &app, nil
}

// SetStatus applies a manual decision. The transition is not guarded: a loan
// already decided can be decided again, and the audit entry records whatever
// status it held immediately before.
func (s *Store) SetStatus(ctx context.Context, loanID string, status domain.Status) (*domain.Application, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return nil, &domain.ValidationError{Message: "Status must be approved or rejected"}
	}
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(apps, loanID)
	if i < 0 {
		return nil, &domain.NotFoundError{ID: loanID}
	}
	prev := apps[i].Status
	apps[i].Status = status
	if err := s.persist(ctx, apps); err != nil {
		return nil, err
	}

	action := domainAudit.ActionApprove
	if status == domain.StatusRejected {
		action = domainAudit.ActionReject
	}
	if err := s.record(ctx, &apps[i], action, statusPtr(prev), statusPtr(status),
		fmt.Sprintf("Status changed from %s to %s", prev, status)); err != nil {
		return nil, err
	}
	return &apps[i], nil
}

// AutoDecide applies the rule-based decision to the loan's current amount and
// term, regardless of its current status: approve when amount and term are
// both within bounds, reject otherwise with the exceeded bounds named.
func (s *Store) AutoDecide(ctx context.Context, loanID string) (*domain.Application, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(apps, loanID)
	if i < 0 {
		return nil, &domain.NotFoundError{ID: loanID}
	}
	prev := apps[i].Status

	overAmount := apps[i].Amount > MaxAutoApproveAmount
	overTerm := apps[i].TermMonths > MaxAutoApproveTermMonths

	var details string
	next := domain.StatusApproved
	if overAmount || overTerm {
		next = domain.StatusRejected
		var reasons []string
		if overAmount {
			reasons = append(reasons, fmt.Sprintf("amount > %s", format.Amount(MaxAutoApproveAmount)))
		}
		if overTerm {
			reasons = append(reasons, fmt.Sprintf("term > %d months", MaxAutoApproveTermMonths))
		}
		details = "Auto-rejected: " + strings.Join(reasons, " and ")
	} else {
		details = fmt.Sprintf("Auto-approved: within %s and %d months",
			format.Amount(MaxAutoApproveAmount), MaxAutoApproveTermMonths)
	}

	apps[i].Status = next
	if err := s.persist(ctx, apps); err != nil {
		return nil, err
	}
	if err := s.record(ctx, &apps[i], domainAudit.ActionAutoDecide, statusPtr(prev), statusPtr(next), details); err != nil {
		return nil, err
	}
	return &apps[i], nil
}

// Delete removes the application and records a delete audit entry that
// snapshots the applicant, amount, and the status held at deletion time.
func (s *Store) Delete(ctx context.Context, loanID string) error {
	apps, err := s.List(ctx)
	if err != nil {
		return err
	}
	i := indexOf(apps, loanID)
	if i < 0 {
		return &domain.NotFoundError{ID: loanID}
	}
	deleted := apps[i]
	apps = append(apps[:i], apps[i+1:]...)
	if err := s.persist(ctx, apps); err != nil {
		return err
	}

	return s.record(ctx, &deleted, domainAudit.ActionDelete, statusPtr(deleted.Status), nil,
		fmt.Sprintf("Application for %s (%s) deleted while %s",
			deleted.ApplicantName, format.Currency(deleted.Amount), deleted.Status))
}

func (s *Store) persist(ctx context.Context, apps []domain.Application) error {
	raw, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("encode loans: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("write loans slot: %w", err)
	}
	return nil
}

// record appends the audit entry for a mutation that already persisted. The
// two writes go to two independent slots with no compensation: a failure here
// leaves the loan mutated without its audit entry, and the caller sees the
// error.
func (s *Store) record(ctx context.Context, app *domain.Application, action domainAudit.ActionType,
	prev, next *domain.Status, details string) error {
	_, err := s.audit.Append(ctx, auditUC.AppendInput{
		ActionType:     action,
		LoanID:         app.ID,
		ApplicantName:  app.ApplicantName,
		PreviousStatus: prev,
		NewStatus:      next,
		Details:        details,
	})
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

func indexOf(apps []domain.Application, loanID string) int {
	for i := range apps {
		if apps[i].ID == loanID {
			return i
		}
	}
	return -1
}

func statusPtr(s domain.Status) *domain.Status { return &s }
