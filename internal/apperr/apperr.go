// Package apperr models the infrastructure-fault axis of spec.md §7. The
// other axis — decision outcomes like an invalid LID, an unverified age
// check, or an unknown UPC — is never an error value; those are plain fields
// on stage results that flow through the pipeline unchanged (spec.md §7:
// "Decision outcomes are never exceptions").
//
// Grounded on common/utils/ErrorHandling.go's IAROSError taxonomy, narrowed
// to this service's two fault categories and stripped of the alerting/metrics
// indirection that file carries (no alerting service exists anywhere in this
// pack; see DESIGN.md).
package apperr

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Code enumerates the infrastructure faults this service can raise.
type Code string

const (
	CodeDatabaseUnavailable Code = "DATABASE_UNAVAILABLE"
	CodeCatalogUnreachable  Code = "CATALOG_UNREACHABLE"
	CodeMalformedRequest    Code = "MALFORMED_REQUEST"
	CodeAVTWriteFailed      Code = "AVT_WRITE_FAILED"
)

// InfraFault is an infrastructure-axis error: the request aborts after a
// best-effort attempt to persist whatever S1 had already durable (spec.md
// §7).
type InfraFault struct {
	ID        string
	Code      Code
	Operation string
	Message   string
	Retryable bool
	Timestamp time.Time
	Cause     error
}

func (e *InfraFault) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Operation, e.Message)
}

func (e *InfraFault) Unwrap() error { return e.Cause }

func newFault(code Code, operation, message string, retryable bool, cause error) *InfraFault {
	return &InfraFault{
		ID:        uuid.New().String(),
		Code:      code,
		Operation: operation,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// DatabaseUnavailable surfaces a fatal stage error per spec.md §4.1:
// "database unavailable → surface as fatal stage error; the pipeline does
// not proceed."
func DatabaseUnavailable(operation string, cause error) *InfraFault {
	return newFault(CodeDatabaseUnavailable, operation, "database unavailable", true, cause)
}

// CatalogUnreachable covers the read-only catalog/allowance lookups of S3/S4.
func CatalogUnreachable(operation string, cause error) *InfraFault {
	return newFault(CodeCatalogUnreachable, operation, "catalog store unreachable", true, cause)
}

// MalformedRequest covers schema errors that prevent extracting
// transaction_id or any basket line (spec.md §7: "fatal at ingress").
func MalformedRequest(operation, message string) *InfraFault {
	return newFault(CodeMalformedRequest, operation, message, false, nil)
}

// AVTWriteFailed is always non-retryable: spec.md §4.2/§7 treat the AVT
// audit write as legally required, so a caller must surface it and refuse to
// proceed rather than retry silently.
func AVTWriteFailed(operation string, cause error) *InfraFault {
	return newFault(CodeAVTWriteFailed, operation, "AVT audit write failed", false, cause)
}
