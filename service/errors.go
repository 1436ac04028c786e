package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind categorizes domain rejections. Every kind is scoped to the
// single requested operation; none is fatal to the process.
type ErrorKind string

const (
	// KindValidation marks input rejected before any write; safe to retry
	// after correction.
	KindValidation ErrorKind = "validation"

	// KindEligibility marks a business-rule rejection, not a system fault.
	KindEligibility ErrorKind = "eligibility"

	// KindState marks an operation rejected to protect invariants.
	KindState ErrorKind = "state"

	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindConcurrency marks an aggregate write conflict; the whole
	// operation is safe to retry.
	KindConcurrency ErrorKind = "concurrency"
)

// ErrorCode names the specific rejection
type ErrorCode string

const (
	CodeInvalidAmount      ErrorCode = "invalid_amount"
	CodeInvalidMonth       ErrorCode = "invalid_month"
	CodeBelowMinimum       ErrorCode = "below_minimum"
	CodeMissingField       ErrorCode = "missing_field"
	CodeExceedsEligibility ErrorCode = "exceeds_eligibility"
	CodeMaxActiveLoans     ErrorCode = "max_active_loans"
	CodeAlreadyStarted     ErrorCode = "already_started"
	CodeInvalidStart       ErrorCode = "invalid_start"
	CodeExceedsOutstanding ErrorCode = "exceeds_outstanding"
	CodeAlreadyPaid        ErrorCode = "already_paid"
	CodeLoanNotActive      ErrorCode = "loan_not_active"
	CodeSnapshotExists     ErrorCode = "snapshot_exists"
	CodeSnapshotMissing    ErrorCode = "snapshot_missing"
	CodeZeroUnits          ErrorCode = "zero_units"
	CodeNotFound           ErrorCode = "not_found"
	CodeWriteConflict      ErrorCode = "write_conflict"
)

// DomainError is a typed, synchronous rejection carrying enough detail
// (kind, code, offending value) for the caller to act on.
type DomainError struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Value   any
}

func (e *DomainError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(code ErrorCode, value any, format string, args ...any) error {
	return &DomainError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...), Value: value}
}

func newEligibilityError(code ErrorCode, value any, format string, args ...any) error {
	return &DomainError{Kind: KindEligibility, Code: code, Message: fmt.Sprintf(format, args...), Value: value}
}

func newStateError(code ErrorCode, value any, format string, args ...any) error {
	return &DomainError{Kind: KindState, Code: code, Message: fmt.Sprintf(format, args...), Value: value}
}

func newNotFoundError(entity string, id any) error {
	return &DomainError{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf("%s not found", entity), Value: id}
}

// CodeOf extracts the domain error code from an error chain, empty when the
// error is not a domain rejection.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// KindOf extracts the domain error kind from an error chain
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// Postgres error codes worth translating into domain errors
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateConflict maps database conflicts into domain errors: unique
// violations become the given state error, serialization failures and
// deadlocks become retryable concurrency errors. Other errors pass through.
func translateConflict(err error, uniqueCode ErrorCode, uniqueMessage string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &DomainError{Kind: KindState, Code: uniqueCode, Message: uniqueMessage}
	case pgSerializationFailure, pgDeadlockDetected:
		return &DomainError{Kind: KindConcurrency, Code: CodeWriteConflict, Message: "aggregate write conflict, retry the operation"}
	}
	return err
}
