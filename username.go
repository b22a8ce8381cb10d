package membership

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
)

// maxUsernameAttempts bounds the allocator: the bare seed plus 998
// numbered fallbacks (seed2 .. seed999).
const maxUsernameAttempts = 999

// localPart returns the substring before the last @, or the whole string
// when there is none.
func localPart(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

// usernameSeed derives the allocator seed from an email address. The
// address must contain exactly one @ with a non empty local part.
func usernameSeed(email string) (string, error) {
	if strings.Count(email, "@") != 1 {
		return "", errors.New("email must contain exactly one @", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	seed := email[:strings.Index(email, "@")]
	if seed == "" {
		return "", errors.New("email has an empty local part", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	return seed, nil
}

// usernameCandidate returns the nth candidate for a seed: the seed itself
// for attempt 0, then seed2, seed3, and so on.
func usernameCandidate(seed string, attempt int) string {
	if attempt == 0 {
		return seed
	}
	return seed + strconv.Itoa(attempt+1)
}
