// Package membership provides user accounts with password login, JWT
// issuance, and admin managed onboarding backed by templated
// transactional email.
//
// Accounts:
//   - Users sign in with their email address (or allocated username) and
//     a password hashed with bcrypt. Email addresses are normalized on
//     write, usernames are derived from the email local part with a
//     numeric suffix allocated atomically against the store's unique
//     constraint.
//   - Admins create accounts through CreateUserHandler. Passwords can be
//     typed in twice or generated from a fixed unambiguous alphabet, and
//     a welcome email carries the credentials to the new user.
//
// Sessions:
//   - Auther verifies credentials against the Users repository and signs
//     HS256 bearer tokens. RouteAuthenticator stores the token in an
//     HttpOnly cookie for page flows, middleware/jwtware validates it on
//     API and WebSocket routes.
//
// Email:
//   - NotificationDispatcher renders admin managed EmailTemplate records
//     with text/template semantics, delivers through a Mailer (an SMTP
//     STARTTLS transport ships with the package), and appends every
//     delivery to the SentEmail audit log.
package membership
