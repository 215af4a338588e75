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
	ErrInvalidInput        = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidCredentials  = NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrNoOpenRegister      = NewDomainError("NO_OPEN_REGISTER", "No open cash register session for this cashier")
	ErrAlreadyOpen         = NewDomainError("ALREADY_OPEN", "An open cash register session already exists")
	ErrAlreadyConverted    = NewDomainError("ALREADY_CONVERTED", "Proforma has already been converted")
	ErrAlreadyResolved     = NewDomainError("ALREADY_RESOLVED", "Already resolved")
	ErrValidationRequired  = NewDomainError("VALIDATION_REQUIRED", "Supervisor validation is required for this operation")
)
