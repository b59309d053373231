package model

// Identity is the resolved result of a successful handshake. It lives only on
// the connection that produced it and is never persisted.
type Identity struct {
	// UserID is the platform user id. For customers it is resolved through
	// the customer record, not taken from the token subject.
	UserID string

	Role Role

	// TenantID is empty for super admins, who carry no implicit tenant.
	TenantID string

	// CustomerID is set only for customer connections.
	CustomerID string
}
