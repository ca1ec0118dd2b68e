package models

import "time"

// Roles assigned by the auth collaborator.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the verified (owner, role) pair attached to every request and
// connection. The service trusts it unconditionally.
type Identity struct {
	OwnerID string
	Role    string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owner mirrors an identity asserted by the auth collaborator. Rows are
// upserted on first sight and exist to scope ledgers and feed admin stats.
type Owner struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// OwnerActivity is an owner together with its last recorded activity.
type OwnerActivity struct {
	Owner
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// OwnerAggregate is one owner's income/expense sums across all transactions.
type OwnerAggregate struct {
	OwnerID string `json:"ownerId"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// Balance returns income minus expense.
func (a OwnerAggregate) Balance() int64 {
	return a.Income - a.Expense
}
