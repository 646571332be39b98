package scheduling

import (
	"fmt"
)

// Code represents a specific rejection kind for scheduling operations.
// Every code is a recoverable, user-facing condition: callers surface the
// rejection and keep running.
type Code string

const (
	// CodeExtractionFailed indicates the intent extractor returned no usable data.
	CodeExtractionFailed Code = "EXTRACTION_FAILED"
	// CodeMalformedCandidate indicates an empty name or an unparseable date/time.
	CodeMalformedCandidate Code = "MALFORMED_CANDIDATE"
	// CodeNonBusinessDay indicates the requested date falls on a weekend.
	CodeNonBusinessDay Code = "NON_BUSINESS_DAY"
	// CodeOutsideBusinessHours indicates the requested time is outside opening hours.
	CodeOutsideBusinessHours Code = "OUTSIDE_BUSINESS_HOURS"
	// CodeSlotConflict indicates the requested slot overlaps an active appointment.
	CodeSlotConflict Code = "SLOT_CONFLICT"
	// CodeNotFound indicates no appointment exists with the given id.
	CodeNotFound Code = "NOT_FOUND"
	// CodeStorageUnavailable indicates the store could not be read or written.
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

// RejectionError is a structured error for scheduling rejections.
type RejectionError struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RejectionError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common rejection kinds.

// ExtractionFailed creates an extraction failed rejection.
func ExtractionFailed(cause error) *RejectionError {
	return &RejectionError{Code: CodeExtractionFailed, Message: "could not understand the request", Cause: cause}
}

// MalformedCandidate creates a malformed candidate rejection.
func MalformedCandidate(msg string) *RejectionError {
	return &RejectionError{Code: CodeMalformedCandidate, Message: msg}
}

// NonBusinessDay creates a non-business-day rejection.
func NonBusinessDay(date string) *RejectionError {
	return &RejectionError{
		Code:    CodeNonBusinessDay,
		Message: fmt.Sprintf("the clinic is open Monday through Friday only, %s is a weekend day", date),
	}
}

// OutsideBusinessHours creates an outside-business-hours rejection.
func OutsideBusinessHours(hhmm string) *RejectionError {
	return &RejectionError{
		Code:    CodeOutsideBusinessHours,
		Message: fmt.Sprintf("appointments must start between 08:00 and 18:00, got %s", hhmm),
	}
}

// SlotConflict creates a slot conflict rejection.
func SlotConflict(date, hhmm string) *RejectionError {
	return &RejectionError{
		Code:    CodeSlotConflict,
		Message: fmt.Sprintf("an appointment already occupies the slot around %s on %s", hhmm, date),
	}
}

// NotFound creates a not-found rejection.
func NotFound(id int32) *RejectionError {
	return &RejectionError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("no appointment with id %d", id),
	}
}

// StorageUnavailable wraps a store failure.
func StorageUnavailable(cause error) *RejectionError {
	return &RejectionError{Code: CodeStorageUnavailable, Message: "appointment store unavailable", Cause: cause}
}

// IsCode checks if an error is a rejection of a specific code.
func IsCode(err error, code Code) bool {
	if rejErr, ok := err.(*RejectionError); ok {
		return rejErr.Code == code
	}
	return false
}

// CodeOf extracts the rejection code from any error.
// Returns the provided default code if the error is not a RejectionError.
func CodeOf(err error, defaultCode Code) Code {
	if rejErr, ok := err.(*RejectionError); ok {
		return rejErr.Code
	}
	return defaultCode
}
