package validators

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsEmailValid checks the address shape. Deliverability is the
// notification collaborator's problem, not ours.
func IsEmailValid(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 100 {
		return false
	}
	return emailRe.MatchString(email)
}
