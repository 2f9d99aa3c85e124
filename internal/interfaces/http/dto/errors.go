package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnknownField is returned for a field change on a field that is
	// not one of the price fields
	ErrCodeUnknownField = "ERR_VALIDATION_UNKNOWN_FIELD"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState         = "ERR_INVALID_STATE"
	ErrCodeUnitNotFound         = "ERR_UNIT_NOT_FOUND"
	ErrCodeUnitCategoryMismatch = "ERR_UNIT_CATEGORY_MISMATCH"
	ErrCodeExchangeRateNotFound = "ERR_RATE_NOT_FOUND"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnknownField: http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeUnitNotFound:         http.StatusUnprocessableEntity,
	ErrCodeUnitCategoryMismatch: http.StatusUnprocessableEntity,
	ErrCodeExchangeRateNotFound: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps shared.DomainError codes to API error codes
var domainErrorCodes = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNKNOWN_FIELD":          ErrCodeUnknownField,
	"UNIT_NOT_FOUND":         ErrCodeUnitNotFound,
	"UNIT_CATEGORY_MISMATCH": ErrCodeUnitCategoryMismatch,
	"RATE_NOT_FOUND":         ErrCodeExchangeRateNotFound,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"INTERNAL_ERROR":         ErrCodeInternal,

	// purchase order rules
	"LINE_NOT_FOUND":       ErrCodeNotFound,
	"INVALID_PRODUCT":      ErrCodeInvalidInput,
	"INVALID_QUANTITY":     ErrCodeInvalidInput,
	"INVALID_UNIT":         ErrCodeInvalidInput,
	"INVALID_ORDER_NUMBER": ErrCodeInvalidInput,
	"INVALID_SUPPLIER":     ErrCodeInvalidInput,
	"INVALID_CURRENCY":     ErrCodeInvalidInput,
	"NO_LINES":             ErrCodeInvalidState,
	"UNPRICED_LINE":        ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format, and unknown codes, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodes[code]; ok {
		return apiCode
	}
	return code
}
