package user

import (
	"strings"
)

// RoleCode is the permission level attached to a user.
type RoleCode string

const (
	RoleCodeAdmin    RoleCode = "ADMIN"
	RoleCodeCustomer RoleCode = "CUSTOMER"
)

func (c RoleCode) IsValid() bool {
	return c == RoleCodeAdmin || c == RoleCodeCustomer
}

func (c RoleCode) IsAdmin() bool {
	return c == RoleCodeAdmin
}

// ParseRoleCode converts a role string from a request or token into a RoleCode.
func ParseRoleCode(s string) (RoleCode, error) {
	c := RoleCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidRoleCode
	}
	return c, nil
}
