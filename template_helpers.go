package membership

import (
	"github.com/goliatone/go-router"
)

var TemplateUserKey = "current_user"

// TemplateHelpers returns a map of helper functions and data that can be
// used with a template engine's global data option.
//
// In templates:
//
//	{% if current_user %}
//	{% if current_user|is_staff %}
//	{% if current_user|has_role:"staff" %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"is_staff":         isStaff,
		"is_superuser":     isSuperuser,
		"has_role":         hasRole,
		"is_at_least":      isAtLeast,

		"roles": map[string]string{
			"member":    RoleMember,
			"staff":     RoleStaff,
			"superuser": RoleSuperuser,
		},
	}
}

// TemplateHelpersWithUser returns template helpers with a specific user
// set as current_user.
func TemplateHelpersWithUser(user *User) map[string]any {
	helpers := TemplateHelpers()
	helpers[TemplateUserKey] = user
	return helpers
}

// TemplateHelpersWithRouter returns template helpers with user data
// extracted from the router context, where the bearer middleware stored
// the validated claims.
func TemplateHelpersWithRouter(ctx router.Context, userKey string) map[string]any {
	if userKey == "" {
		userKey = TemplateUserKey
	}

	helpers := TemplateHelpers()

	if user := ctx.Locals(userKey); user != nil {
		helpers[TemplateUserKey] = user
	}

	return helpers
}

// MergeTemplateData merges the auth helpers and current user into a view
// context, keeping any values the caller already set.
func MergeTemplateData(ctx router.Context, data router.ViewContext) router.ViewContext {
	if data == nil {
		data = router.ViewContext{}
	}

	for key, value := range TemplateHelpersWithRouter(ctx, "") {
		if _, taken := data[key]; !taken {
			data[key] = value
		}
	}

	return data
}

// GetTemplateUser extracts user data from the router context for template
// usage. It returns the user object and whether it was found.
func GetTemplateUser(ctx router.Context, userKey string) (any, bool) {
	if userKey == "" {
		userKey = TemplateUserKey
	}

	user := ctx.Locals(userKey)
	return user, user != nil
}

// isAuthenticated checks if the provided user object is not nil
func isAuthenticated(user any) bool {
	if user == nil {
		return false
	}

	switch u := user.(type) {
	case *User:
		return u != nil
	case User:
		return true
	case AuthClaims:
		return u != nil && u.UserID() != ""
	case map[string]any:
		return len(u) > 0
	default:
		return false
	}
}

// isStaff checks if the user carries the staff flag
func isStaff(user any) bool {
	switch u := user.(type) {
	case *User:
		return u != nil && u.IsStaff
	case User:
		return u.IsStaff
	case AuthClaims:
		return u != nil && u.IsStaff()
	case map[string]any:
		staff, _ := u["is_staff"].(bool)
		return staff
	default:
		return false
	}
}

// isSuperuser checks if the user carries the superuser flag
func isSuperuser(user any) bool {
	switch u := user.(type) {
	case *User:
		return u != nil && u.IsSuperuser
	case User:
		return u.IsSuperuser
	case AuthClaims:
		return u != nil && u.IsSuperuser()
	case map[string]any:
		superuser, _ := u["is_superuser"].(bool)
		return superuser
	default:
		return false
	}
}

// hasRole checks if the user has exactly the specified role
func hasRole(user any, role string) bool {
	return roleOf(user) == role
}

// isAtLeast checks if the user's role is at least the minimum required level
func isAtLeast(user any, minRole string) bool {
	min, ok := roleRank[minRole]
	if !ok {
		return false
	}
	rank, ok := roleRank[roleOf(user)]
	if !ok {
		return false
	}
	return rank >= min
}

func roleOf(user any) string {
	if !isAuthenticated(user) {
		return ""
	}

	switch {
	case isSuperuser(user):
		return RoleSuperuser
	case isStaff(user):
		return RoleStaff
	default:
		return RoleMember
	}
}
