package validator

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/authgrid/rbac-backend/internal/response"
)

// KeyRule configures identifier validation for one entity kind.
// Permission and role keys are validated independently so deployments can
// tighten or relax either without touching the other.
type KeyRule struct {
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// ErrorMessage, when set, replaces the default format-violation message.
	// Length and empty-key messages are not affected.
	ErrorMessage string
}

var (
	permissionKeyPattern = regexp.MustCompile(`(?i)^[a-z0-9_]+:[a-z0-9_]+$`)
	roleKeyPattern       = regexp.MustCompile(`(?i)^[a-z0-9_]+$`)
)

// DefaultPermissionKeyRule validates keys shaped like "feature:action".
func DefaultPermissionKeyRule() KeyRule {
	return KeyRule{MinLength: 3, MaxLength: 50, Pattern: permissionKeyPattern}
}

// DefaultRoleKeyRule validates single-segment role keys.
func DefaultRoleKeyRule() KeyRule {
	return KeyRule{MinLength: 3, MaxLength: 50, Pattern: roleKeyPattern}
}

type keyCodes struct {
	empty  response.ErrCode
	length response.ErrCode
	format response.ErrCode
}

// ValidatePermissionKey checks a permission key against the rule, returning a
// typed BAD_REQUEST error with the violated code on failure.
func ValidatePermissionKey(key string, rule KeyRule) error {
	return validateKey(key, rule, keyCodes{
		empty:  response.ErrInvalidPermissionKey,
		length: response.ErrInvalidPermissionKeyLength,
		format: response.ErrInvalidPermissionKeyFormat,
	})
}

// ValidateRoleKey checks a role key against the rule.
func ValidateRoleKey(key string, rule KeyRule) error {
	return validateKey(key, rule, keyCodes{
		empty:  response.ErrInvalidRoleKey,
		length: response.ErrInvalidRoleKeyLength,
		format: response.ErrInvalidRoleKeyFormat,
	})
}

// validateKey runs the checks in a fixed order: presence, minimum trimmed
// length, maximum length, pattern.
func validateKey(key string, rule KeyRule, codes keyCodes) error {
	if key == "" {
		return response.NewError(http.StatusBadRequest, codes.empty)
	}
	if len(strings.TrimSpace(key)) < rule.MinLength {
		return response.NewError(http.StatusBadRequest, codes.length)
	}
	if len(key) > rule.MaxLength {
		return response.NewError(http.StatusBadRequest, codes.length)
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(key) {
		if rule.ErrorMessage != "" {
			return response.NewErrorMsg(http.StatusBadRequest, codes.format, rule.ErrorMessage)
		}
		return response.NewError(http.StatusBadRequest, codes.format)
	}
	return nil
}
