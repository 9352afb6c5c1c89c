package validator

import (
	"github.com/dlclark/regexp2"
)

// Lookaheads are not supported by the standard regexp package.
var passwordRegex = regexp2.MustCompile(`^(?=.*[a-z])(?=.*[A-Z])(?=.*\d).{8,}$`, regexp2.None)

func IsValidPassword(password string) bool {
	ok, err := passwordRegex.MatchString(password)
	if err != nil {
		return false
	}

	return ok
}
