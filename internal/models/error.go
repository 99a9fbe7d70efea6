package models

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Account-specific errors
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrRoleNotFound       = "ROLE_NOT_FOUND"
	ErrEmailTaken         = "EMAIL_TAKEN"
	ErrRoleNameTaken      = "ROLE_NAME_TAKEN"
	ErrRoleInUse          = "ROLE_IN_USE"
	ErrLastAdmin          = "LAST_ADMIN"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
