package membership

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// PasswordAlphabet is the fixed 56 character alphabet used for generated
// passwords: letters and digits minus the visually ambiguous 0, 1, I, O, l.
const PasswordAlphabet = "abcdefghjkmnpqrstuvwxyz" + "ABCDEFGHJKLMNPQRSTUVWXYZ" + "23456789"

// DefaultPasswordLength is the length of generated passwords.
const DefaultPasswordLength = 8

// MinPasswordLength is the policy floor for user supplied passwords.
const MinPasswordLength = 8

// commonPasswords is a small deny list of passwords seen in every breach
// corpus. User supplied passwords matching one of these are rejected.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "passw0rd": {}, "12345678": {},
	"123456789": {}, "1234567890": {}, "qwerty123": {}, "qwertyuiop": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "admin123": {}, "letmein1": {},
	"monkey123": {}, "dragon123": {}, "trustno1": {}, "superman": {},
	"asdfghjkl": {}, "11111111": {}, "00000000": {}, "abc12345": {},
}

// GeneratePassword produces a random password of the given length drawn
// from PasswordAlphabet using a cryptographically secure source. A length
// of zero or less falls back to DefaultPasswordLength.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}

	alphabet := []rune(PasswordAlphabet)
	max := big.NewInt(int64(len(alphabet)))

	out := make([]rune, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryInternal, "failed to read random source")
		}
		out[i] = alphabet[n.Int64()]
	}

	return string(out), nil
}

// ValidatePassword checks a user supplied password against the platform
// policy: minimum length, not entirely numeric, not too similar to the
// user's own attributes, and not a known common password. All rejection
// reasons are collected and returned together.
func ValidatePassword(password string, user *User) error {
	var reasons []string

	if len(password) < MinPasswordLength {
		reasons = append(reasons, "This password is too short. It must contain at least 8 characters.")
	}

	if password != "" && isEntirelyNumeric(password) {
		reasons = append(reasons, "This password is entirely numeric.")
	}

	if _, found := commonPasswords[strings.ToLower(password)]; found {
		reasons = append(reasons, "This password is too common.")
	}

	if user != nil && tooSimilarToUser(password, user) {
		reasons = append(reasons, "The password is too similar to your other personal information.")
	}

	if len(reasons) == 0 {
		return nil
	}

	return errors.New("password does not satisfy policy", errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"reasons": reasons})
}

// PasswordPolicyRule adapts ValidatePassword into an ozzo validation rule
// so form payloads can carry the policy alongside their field rules.
func PasswordPolicyRule(user *User) validation.RuleFunc {
	return func(value any) error {
		password, _ := value.(string)
		if password == "" {
			return nil
		}
		return ValidatePassword(password, user)
	}
}

func isEntirelyNumeric(password string) bool {
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilarToUser rejects passwords that contain, or are contained in,
// one of the user's identifying attributes. Comparison is case
// insensitive and attributes shorter than 4 runes are skipped to avoid
// matching on noise.
func tooSimilarToUser(password string, user *User) bool {
	attrs := []string{
		user.Email,
		localPart(user.Email),
		user.Username,
		user.FirstName,
		user.LastName,
	}

	lowered := strings.ToLower(password)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if len([]rune(attr)) < 4 {
			continue
		}
		if strings.Contains(lowered, attr) || strings.Contains(attr, lowered) {
			return true
		}
	}

	return false
}
