package membership

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials  = "invalid_credentials"
	TextCodeTokenExpired        = "token_expired"
	TextCodeTokenMalformed      = "token_malformed"
	TextCodeAllocationExhausted = "username_allocation_exhausted"
	TextCodeTemplateNotFound    = "email_template_not_found"
	TextCodeTemplateRender      = "email_template_render_failed"
	TextCodeEmailTaken          = "email_already_registered"
)

// ErrInvalidCredentials is returned for any failed credential check: wrong
// password, unknown account, or inactive account. Callers must not be able
// to tell those cases apart.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a bearer token is past its expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a bearer token cannot be decoded or
// its signature does not verify.
var ErrTokenMalformed = errors.New("authentication token invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrAllocationExhausted is returned when every candidate username derived
// from an email seed is already taken. Treated as fatal, it is surfaced to
// operators and never retried.
var ErrAllocationExhausted = errors.New("exhausted attempts to allocate a unique username", errors.CategoryInternal).
	WithTextCode(TextCodeAllocationExhausted).
	WithCode(errors.CodeInternal)

// ErrTemplateNotFound signals a missing email template, a configuration
// error an operator has to fix.
var ErrTemplateNotFound = errors.New("email template not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTemplateNotFound).
	WithCode(errors.CodeNotFound)

// ErrEmailTaken is returned when creating a user with an email that
// already has an account.
var ErrEmailTaken = errors.New("a user with that email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUnableToFindSession is the error when the request has no session cookie.
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession is returned when session claims cannot be decoded.
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// isUniqueViolation reports whether err is a store-level unique constraint
// failure involving the given column. The repository layer wraps driver
// errors in rich errors whose message is a generic sentence, so the whole
// source chain is walked and each level matched textually; the bun drivers
// in play (sqlite, pgdriver) both name the offending column.
func isUniqueViolation(err error, column string) bool {
	for err != nil {
		msg := strings.ToLower(err.Error())
		if (strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")) &&
			strings.Contains(msg, strings.ToLower(column)) {
			return true
		}

		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Source != nil && richErr.Source != err {
			err = richErr.Source
			continue
		}

		err = stderrors.Unwrap(err)
	}
	return false
}
