package billing

// Role is the actor role attached to an authenticated request. Staff and
// admin actors bypass the discount approval queue; customer actors enter it
// for discounts that require sign-off.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Actor identifies who is performing a billing operation.
type Actor struct {
	Role Role
	// CustomerID is set for customer actors; coin operations debit and
	// credit this customer's balance.
	CustomerID string
}

// IsStaff reports whether the actor holds a staff or admin role.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}
