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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Financial validation errors raised by the order engine
var (
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrInvalidAmount       = NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrOverpaymentRejected = NewDomainError("OVERPAYMENT_REJECTED", "Payment exceeds the outstanding balance")
	ErrMissingGeometry     = NewDomainError("MISSING_GEOMETRY", "Area-billed line requires width and height")
	ErrMissingDuration     = NewDomainError("MISSING_DURATION", "Time-billed line requires a cutting duration")
	ErrRateUnavailable     = NewDomainError("RATE_UNAVAILABLE", "No exchange rate available for the requested conversion")
)
