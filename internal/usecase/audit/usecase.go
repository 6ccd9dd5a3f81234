package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "tredgate-loan-portal/internal/domain/audit"
	domainLoan "tredgate-loan-portal/internal/domain/loan"
	"tredgate-loan-portal/internal/storage"
	"tredgate-loan-portal/pkg/id"
)

const (
	// StorageKey is the slot holding the audit entries, oldest first.
	StorageKey = "tredgate_audit_log"
	// Capacity is the retention cap; Save evicts oldest-first beyond it.
	Capacity = 500
)

// Log is the append-only, capacity-bounded history of domain actions. It is
// written by the loan store on every mutation and read by the reporting view.
type Log struct {
	kv     storage.Store
	logger *zap.Logger
}

func NewLog(kv storage.Store, logger *zap.Logger) *Log {
	return &Log{kv: kv, logger: logger}
}

// AppendInput describes one domain action to record. PreviousStatus is nil
// for create, NewStatus is nil for delete.
type AppendInput struct {
	ActionType     domain.ActionType
	LoanID         string
	ApplicantName  string
	PreviousStatus *domainLoan.Status
	NewStatus      *domainLoan.Status
	Details        string
}

// GetAll returns all entries oldest first. A missing slot is an empty log; an
// unparsable slot is logged and also treated as empty, so a corrupt profile
// never crashes the caller.
func (l *Log) GetAll(ctx context.Context) ([]domain.Entry, error) {
	raw, ok, err := l.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read audit log slot: %w", err)
	}
	if !ok {
		return []domain.Entry{}, nil
	}
	var entries []domain.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.logger.Warn("audit log slot unparsable, treating as empty",
			zap.String("key", StorageKey), zap.Error(err))
		return []domain.Entry{}, nil
	}
	return entries, nil
}

// Append records one action: generates id and timestamp, loads the current
// history, adds the entry at the end, and persists through the trimming Save.
func (l *Log) Append(ctx context.Context, in AppendInput) (*domain.Entry, error) {
	entries, err := l.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	e := domain.Entry{
		ID:             id.NewID32(),
		Timestamp:      time.Now().UTC(),
		ActionType:     in.ActionType,
		LoanID:         in.LoanID,
		ApplicantName:  in.ApplicantName,
		PreviousStatus: in.PreviousStatus,
		NewStatus:      in.NewStatus,
		Details:        in.Details,
	}
	entries = append(entries, e)
	if err := l.Save(ctx, entries); err != nil {
		return nil, err
	}
	return &e, nil
}

// Save persists entries, keeping only the newest Capacity of them. This trim
// is the sole eviction mechanism; there is no time-based expiry.
func (l *Log) Save(ctx context.Context, entries []domain.Entry) error {
	entries = trimToCapacity(entries, Capacity)
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode audit log: %w", err)
	}
	if err := l.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("write audit log slot: %w", err)
	}
	return nil
}

// Clear removes all entries unconditionally. Reset workflows only; normal
// user flow never calls it.
func (l *Log) Clear(ctx context.Context) error {
	if err := l.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear audit log slot: %w", err)
	}
	return nil
}

// MaxEntries exposes the retention cap for display.
func (l *Log) MaxEntries() int { return Capacity }

// Filter returns the subsequence of entries matching all supplied criteria,
// in the input order. The action-type set and the search text compose with
// AND; the search text matches case-insensitively against loan id, applicant
// name, or details (OR across the three). Empty criteria impose no filter.
func Filter(entries []domain.Entry, c domain.Criteria) []domain.Entry {
	search := strings.ToLower(strings.TrimSpace(c.SearchText))
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if len(c.ActionTypes) > 0 && !hasAction(c.ActionTypes, e.ActionType) {
			continue
		}
		if search != "" && !matchesSearch(&e, search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasAction(set []domain.ActionType, t domain.ActionType) bool {
	for _, a := range set {
		if a == t {
			return true
		}
	}
	return false
}

func matchesSearch(e *domain.Entry, search string) bool {
	return strings.Contains(strings.ToLower(e.LoanID), search) ||
		strings.Contains(strings.ToLower(e.ApplicantName), search) ||
		strings.Contains(strings.ToLower(e.Details), search)
}

// trimToCapacity keeps the newest max entries, dropping oldest-first. Entries
// are oldest-first, so the kept window is the tail.
func trimToCapacity(entries []domain.Entry, max int) []domain.Entry {
	if len(entries) <= max {
		return entries
	}
	return entries[len(entries)-max:]
}
