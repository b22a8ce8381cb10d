package membership

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, IsTokenExpiredError(nil))
	assert.True(t, IsTokenExpiredError(ErrTokenExpired))
	assert.True(t, IsTokenExpiredError(fmt.Errorf("token is expired by 1h")))
	assert.False(t, IsTokenExpiredError(ErrTokenMalformed))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, IsMalformedError(nil))
	assert.True(t, IsMalformedError(ErrTokenMalformed))
	assert.True(t, IsMalformedError(fmt.Errorf("token is malformed: could not base64 decode")))
	assert.True(t, IsMalformedError(fmt.Errorf("missing or malformed JWT")))
	assert.False(t, IsMalformedError(ErrTokenExpired))
}

func TestIsUniqueViolation(t *testing.T) {
	// sqlite phrasing
	sqlite := fmt.Errorf("constraint failed: UNIQUE constraint failed: users.username (2067)")
	assert.True(t, isUniqueViolation(sqlite, "username"))
	assert.False(t, isUniqueViolation(sqlite, "email"))

	// postgres phrasing
	pg := fmt.Errorf(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE=23505)`)
	assert.True(t, isUniqueViolation(pg, "email"))
	assert.False(t, isUniqueViolation(pg, "username"))

	assert.False(t, isUniqueViolation(nil, "email"))
	assert.False(t, isUniqueViolation(fmt.Errorf("connection refused"), "email"))
}

// The repository layer hides driver errors behind a rich error whose top
// level message says nothing about the constraint. Detection has to look
// through the source chain.
func TestIsUniqueViolation_WrappedDriverError(t *testing.T) {
	sqlite := fmt.Errorf("constraint failed: UNIQUE constraint failed: users.username (2067)")
	wrapped := errors.Wrap(sqlite, errors.CategoryOperation, "An unexpected error occurred.")
	assert.True(t, isUniqueViolation(wrapped, "username"))
	assert.False(t, isUniqueViolation(wrapped, "email"))

	pg := fmt.Errorf(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE=23505)`)
	assert.True(t, isUniqueViolation(errors.Wrap(pg, errors.CategoryOperation, "An unexpected error occurred."), "email"))

	// double wrapping, rich error inside a plain fmt wrapper
	nested := fmt.Errorf("create user: %w", errors.Wrap(sqlite, errors.CategoryOperation, "An unexpected error occurred."))
	assert.True(t, isUniqueViolation(nested, "username"))

	clean := errors.Wrap(fmt.Errorf("connection refused"), errors.CategoryOperation, "An unexpected error occurred.")
	assert.False(t, isUniqueViolation(clean, "username"))
}
