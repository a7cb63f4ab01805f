package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeDatabaseError      ErrorCode = "COMMON_007"
	ErrCodeCacheError         ErrorCode = "COMMON_008"
	ErrCodeStorageError       ErrorCode = "COMMON_009"
	ErrCodeMessagingError     ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
	ErrCodeTimeout            ErrorCode = "COMMON_012"
)

// Rule-pack module error codes. One per loader failure mode: the loader
// refuses to produce a pack on any of these, so the engine can never be
// constructed over a known-bad document.
const (
	// ErrCodePackNotFound: the rule-pack source does not exist at the
	// resolved location.
	ErrCodePackNotFound ErrorCode = "PACK_001"

	// ErrCodePackMalformed: the source exists but is empty or cannot be
	// parsed as a structured document.
	ErrCodePackMalformed ErrorCode = "PACK_002"

	// ErrCodePackInvalid: the document parsed but violates the rule-pack
	// schema (missing required fields, wrong types, duplicate deadline names).
	ErrCodePackInvalid ErrorCode = "PACK_003"

	// ErrCodeCalendarInvalid: a holiday-calendar document failed to load or
	// parse for a configured jurisdiction.
	ErrCodeCalendarInvalid ErrorCode = "PACK_004"
)

// Deadline-calculation module error codes. All are per-call failures that
// abort the entire calculation; no partial deadline map is ever returned.
const (
	// ErrCodeUnsupportedJurisdiction: the jurisdiction code is not among the
	// packs the engine was constructed with.
	ErrCodeUnsupportedJurisdiction ErrorCode = "CALC_001"

	// ErrCodeUnknownEvent: the event name is absent from the jurisdiction's pack.
	ErrCodeUnknownEvent ErrorCode = "CALC_002"

	// ErrCodeInvalidTimeFormat: a deadline's time_of_day did not parse into a
	// valid (hour, minute) pair.
	ErrCodeInvalidTimeFormat ErrorCode = "CALC_003"

	// ErrCodeUnsupportedServiceMethod: the service method is not in the
	// fixed bonus table (personal, eservice, mail).
	ErrCodeUnsupportedServiceMethod ErrorCode = "CALC_004"
)

// Sentinel codes used by helpers; never attached to real failures.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,

	ErrCodePackNotFound:    http.StatusInternalServerError,
	ErrCodePackMalformed:   http.StatusInternalServerError,
	ErrCodePackInvalid:     http.StatusInternalServerError,
	ErrCodeCalendarInvalid: http.StatusInternalServerError,

	ErrCodeUnsupportedJurisdiction:  http.StatusNotFound,
	ErrCodeUnknownEvent:             http.StatusNotFound,
	ErrCodeInvalidTimeFormat:        http.StatusUnprocessableEntity,
	ErrCodeUnsupportedServiceMethod: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "message broker error",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",

	ErrCodePackNotFound:    "rule pack source not found",
	ErrCodePackMalformed:   "rule pack source is empty or unparseable",
	ErrCodePackInvalid:     "rule pack violates schema",
	ErrCodeCalendarInvalid: "holiday calendar failed to load",

	ErrCodeUnsupportedJurisdiction:  "jurisdiction is not configured",
	ErrCodeUnknownEvent:             "event is not defined for this jurisdiction",
	ErrCodeInvalidTimeFormat:        "time_of_day does not parse as H:MM",
	ErrCodeUnsupportedServiceMethod: "service method is not recognized",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
