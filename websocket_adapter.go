package membership

import (
	"context"

	"github.com/goliatone/go-router"
)

// Role names exposed to the WebSocket layer, derived from the account
// flags carried by the token.
const (
	RoleMember    = "member"
	RoleStaff     = "staff"
	RoleSuperuser = "superuser"
)

var roleRank = map[string]int{
	RoleMember:    0,
	RoleStaff:     1,
	RoleSuperuser: 2,
}

// WSTokenValidator implements go-router's WSTokenValidator interface so
// WebSocket handshakes authenticate with the same tokens as HTTP routes.
type WSTokenValidator struct {
	tokenService TokenService
}

// NewWSTokenValidator creates a new WebSocket token validator using the provided TokenService
func NewWSTokenValidator(tokenService TokenService) *WSTokenValidator {
	return &WSTokenValidator{
		tokenService: tokenService,
	}
}

// Validate validates a token string and returns WebSocket-compatible auth claims
func (w *WSTokenValidator) Validate(tokenString string) (router.WSAuthClaims, error) {
	claims, err := w.tokenService.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return &WSAuthClaimsAdapter{claims: claims}, nil
}

// WSAuthClaimsAdapter adapts membership AuthClaims to go-router's
// WSAuthClaims interface. Resource permissions are coarse: any
// authenticated account can read, mutations require the staff flag.
type WSAuthClaimsAdapter struct {
	claims AuthClaims
}

// Subject returns the subject claim
func (w *WSAuthClaimsAdapter) Subject() string {
	return w.claims.Subject()
}

// UserID returns the user ID
func (w *WSAuthClaimsAdapter) UserID() string {
	return w.claims.UserID()
}

// Role maps the account flags to a role name
func (w *WSAuthClaimsAdapter) Role() string {
	switch {
	case w.claims.IsSuperuser():
		return RoleSuperuser
	case w.claims.IsStaff():
		return RoleStaff
	default:
		return RoleMember
	}
}

// CanRead checks if the user can read a specific resource
func (w *WSAuthClaimsAdapter) CanRead(resource string) bool {
	return true
}

// CanEdit checks if the user can edit a specific resource
func (w *WSAuthClaimsAdapter) CanEdit(resource string) bool {
	return w.claims.IsStaff()
}

// CanCreate checks if the user can create a specific resource
func (w *WSAuthClaimsAdapter) CanCreate(resource string) bool {
	return w.claims.IsStaff()
}

// CanDelete checks if the user can delete a specific resource
func (w *WSAuthClaimsAdapter) CanDelete(resource string) bool {
	return w.claims.IsStaff()
}

// HasRole checks if the user has a specific role
func (w *WSAuthClaimsAdapter) HasRole(role string) bool {
	return w.Role() == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (w *WSAuthClaimsAdapter) IsAtLeast(minRole string) bool {
	min, ok := roleRank[minRole]
	if !ok {
		return false
	}
	return roleRank[w.Role()] >= min
}

// NewWSAuthMiddleware creates a fully configured WebSocket authentication
// middleware backed by this authenticator's TokenService.
func (s *Auther) NewWSAuthMiddleware(config ...router.WSAuthConfig) router.WebSocketMiddleware {
	validator := NewWSTokenValidator(s.tokenService)

	var cfg router.WSAuthConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	cfg.TokenValidator = validator

	return router.NewWSAuth(cfg)
}

// WSAuthClaimsFromContext retrieves the membership claims stored by the
// WebSocket auth middleware, if the handshake used our validator.
func WSAuthClaimsFromContext(ctx context.Context) (AuthClaims, bool) {
	wsAuthClaims, ok := router.WSAuthClaimsFromContext(ctx)
	if !ok {
		return nil, false
	}

	if adapter, ok := wsAuthClaims.(*WSAuthClaimsAdapter); ok {
		return adapter.claims, true
	}

	return nil, false
}
