package response

import (
	"errors"
	"net/http"
)

// ErrCode is a typed error code enum for consistent API error identification.
// Clients are expected to branch on the code, never on the message text.
type ErrCode string

const (
	// ─── Authentication / Authorization ────────────────────────────────
	ErrUnauthorized       ErrCode = "UNAUTHORIZED"
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation                 ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload             ErrCode = "INVALID_PAYLOAD"
	ErrInvalidPermissionKey       ErrCode = "INVALID_PERMISSION_KEY"
	ErrInvalidPermissionKeyLength ErrCode = "INVALID_PERMISSION_KEY_LENGTH"
	ErrInvalidPermissionKeyFormat ErrCode = "INVALID_PERMISSION_KEY_FORMAT"
	ErrInvalidRoleKey             ErrCode = "INVALID_ROLE_KEY"
	ErrInvalidRoleKeyLength       ErrCode = "INVALID_ROLE_KEY_LENGTH"
	ErrInvalidRoleKeyFormat       ErrCode = "INVALID_ROLE_KEY_FORMAT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound                ErrCode = "NOT_FOUND"
	ErrPermissionNotFound      ErrCode = "PERMISSION_NOT_FOUND"
	ErrRoleNotFound            ErrCode = "ROLE_NOT_FOUND"
	ErrUserNotFound            ErrCode = "USER_NOT_FOUND"
	ErrPermissionAlreadyExists ErrCode = "PERMISSION_ALREADY_EXISTS"
	ErrRoleAlreadyExists       ErrCode = "ROLE_ALREADY_EXISTS"

	// ─── Delete guards ─────────────────────────────────────────────────
	ErrCannotDeleteAssignedPermission ErrCode = "CANNOT_DELETE_ASSIGNED_PERMISSION"
	ErrCannotDeleteAssignedRole       ErrCode = "CANNOT_DELETE_ASSIGNED_ROLE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the default human-readable message for an error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrUnauthorized:
		return "Authentication is required to access this resource."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrInvalidPermissionKey:
		return "Permission key is required."
	case ErrInvalidPermissionKeyLength:
		return "Permission key length is out of the allowed range."
	case ErrInvalidPermissionKeyFormat:
		return "Permission key must match the feature:action format."
	case ErrInvalidRoleKey:
		return "Role key is required."
	case ErrInvalidRoleKeyLength:
		return "Role key length is out of the allowed range."
	case ErrInvalidRoleKeyFormat:
		return "Role key contains invalid characters."
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrPermissionNotFound:
		return "Permission not found."
	case ErrRoleNotFound:
		return "Role not found."
	case ErrUserNotFound:
		return "User not found."
	case ErrPermissionAlreadyExists:
		return "A permission with this key already exists."
	case ErrRoleAlreadyExists:
		return "A role with this key already exists."
	case ErrCannotDeleteAssignedPermission:
		return "This permission is assigned to one or more roles and cannot be deleted."
	case ErrCannotDeleteAssignedRole:
		return "This role is still assigned to users or permissions and cannot be deleted."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

// Error is a typed service error carrying the HTTP status and a stable code.
// Services return it so handlers can serialize failures without matching on
// message text.
type Error struct {
	Status  int
	Code    ErrCode
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewError builds an Error with the default message for the code.
func NewError(status int, code ErrCode) *Error {
	return &Error{Status: status, Code: code, Message: GetMessage(code)}
}

// NewErrorMsg builds an Error with a custom message.
func NewErrorMsg(status int, code ErrCode, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// AsError unwraps err into *Error, falling back to 500 INTERNAL_ERROR for
// anything untyped (adapter failures, pgx errors, context cancellation).
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewError(http.StatusInternalServerError, ErrInternal)
}
