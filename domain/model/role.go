package model

import "fmt"

// Role is the trust level a connection authenticates with. Every inbound
// operation is authorized by switching exhaustively over it.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleCustomer   Role = "customer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleCustomer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// SenderType is the role-derived category stamped on a message. It is always
// computed server-side, never taken from client input.
func (r Role) SenderType() string {
	return string(r)
}
