package ledger

// Role distinguishes the two kinds of users the system knows about.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User is a registered identity, keyed by NIC. Only customers own bank
// accounts; for admins OwnedAccounts stays empty. The role is fixed at
// registration and never changes afterwards.
type User struct {
	NIC          string
	Name         string
	Address      string
	DOB          string // YYYY-MM-DD
	PasswordHash string
	Role         Role

	// OwnedAccounts lists account numbers in creation order.
	OwnedAccounts []string
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCustomer reports whether the user holds the customer role.
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}
