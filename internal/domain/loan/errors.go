package loan

import "fmt"

// ValidationError reports the first creation rule an input violated. Checks
// are ordered and not aggregated, so the message always names exactly one
// failing field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an id absent from the current collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("loan application %s not found", e.ID)
}
