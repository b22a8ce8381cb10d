package membership

// UserIdentity adapts a User into the Identity interface for token generation.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Username returns the user's username.
func (u UserIdentity) Username() string {
	if u.user == nil {
		return ""
	}
	return u.user.Username
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// IsStaff reports whether the user may access the admin surface.
func (u UserIdentity) IsStaff() bool {
	if u.user == nil {
		return false
	}
	return u.user.IsStaff
}

// IsSuperuser reports whether the user holds every permission.
func (u UserIdentity) IsSuperuser() bool {
	if u.user == nil {
		return false
	}
	return u.user.IsSuperuser
}
