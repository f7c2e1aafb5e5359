package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrAdminNotFound        = errors.New("admin not found")

	// ErrStaleOrganization is returned when a compare-and-swap on the
	// organization row loses to a concurrent writer.
	ErrStaleOrganization = errors.New("organization row changed since read")
	ErrStalePayment      = errors.New("payment row changed since read")
)

// ValidationError reports bad caller input: a blank reason, an oversized or
// wrong-type file, a tariff mismatch.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateError reports an operation attempted against an entity outside
// the state the operation requires.
type InvalidStateError struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s", e.Entity, e.ID, e.Status)
}

// PreconditionFailedError reports a state machine guard violation. Documents
// and Blocking carry enough structure for the caller to render which documents
// stand in the way rather than a generic failure.
type PreconditionFailedError struct {
	Message   string           `json:"message"`
	Documents *DocumentSummary `json:"documents,omitempty"`
}

func (e *PreconditionFailedError) Error() string {
	if e.Documents != nil && len(e.Documents.Blocking) > 0 {
		return fmt.Sprintf("%s: blocked by %s", e.Message, strings.Join(e.Documents.Blocking, ", "))
	}
	return e.Message
}

// PermissionError reports an actor lacking the capability an operation
// requires.
type PermissionError struct {
	UserID     string     `json:"userId"`
	Capability Capability `json:"capability"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s lacks capability %s", e.UserID, e.Capability)
}

// StorageError wraps a blob storage transport failure. The engine never
// retries; retry policy belongs to the caller.
type StorageError struct {
	Op     string
	Bucket string
	Path   string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Bucket, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
