package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so wrapped
// sentinel errors can be matched with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnknownField         = NewDomainError("UNKNOWN_FIELD", "Unknown price field")
	ErrUnitNotFound         = NewDomainError("UNIT_NOT_FOUND", "Unit of measure not found")
	ErrUnitCategoryMismatch = NewDomainError("UNIT_CATEGORY_MISMATCH", "Units belong to different measurement categories")
	ErrRateNotFound         = NewDomainError("RATE_NOT_FOUND", "No exchange rate found for currency")
)
