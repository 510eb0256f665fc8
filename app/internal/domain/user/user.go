package user

import (
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Location     string
	Latitude     *float64
	Longitude    *float64
	RoleCode     RoleCode
	CreatedAt    time.Time
}

var usernameRegexp = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

// NormalizeUsername lower-cases and validates a username.
func NormalizeUsername(s string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(s))
	if !usernameRegexp.MatchString(u) {
		return "", ErrInvalidUsername
	}
	return u, nil
}
