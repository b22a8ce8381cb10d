package membership

import (
	"context"

	"github.com/damoti/go-membership/middleware/jwtware"
)

// ContextEnricherAdapter adapts jwtware.AuthClaims to membership AuthClaims
// and stores them in the standard context so handlers below the guard can
// use GetClaims without touching the router context.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}
