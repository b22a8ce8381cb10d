package membership_test

import (
	"testing"

	"github.com/damoti/go-membership"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	// only the domain is lowered, local parts are case sensitive
	assert.Equal(t, "Lex@damoti.com", membership.NormalizeEmail("Lex@DAMOTI.COM"))
	assert.Equal(t, "lex@damoti.com", membership.NormalizeEmail("  lex@damoti.com  "))
	assert.Equal(t, "lex@one@damoti.com", membership.NormalizeEmail("lex@one@Damoti.Com"))
	assert.Equal(t, "no-at-sign", membership.NormalizeEmail("no-at-sign"))
	assert.Equal(t, "", membership.NormalizeEmail("   "))
}

func TestUserNames(t *testing.T) {
	user := &membership.User{FirstName: "Lex", LastName: "Berezhny"}
	assert.Equal(t, "Lex Berezhny", user.FullName())
	assert.Equal(t, "Lex", user.ShortName())

	assert.Equal(t, "Lex", (&membership.User{FirstName: "Lex"}).FullName())
	assert.Equal(t, "Berezhny", (&membership.User{LastName: "Berezhny"}).FullName())
	assert.Equal(t, "", (&membership.User{}).FullName())
}
