// Package staff holds staff member profiles and roles.
package staff

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a staff member does not exist.
var ErrNotFound = errors.New("staff member not found")

// Role is a staff member's function in the restaurant.
type Role string

const (
	RoleKitchen   Role = "kitchen"
	RoleWaitstaff Role = "waitstaff"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleKitchen, RoleWaitstaff, RoleAdmin:
		return true
	}
	return false
}

// Member is a staff member.
type Member struct {
	ID       int64
	Username string
	Phone    string
	Role     Role
}

// Repository defines staff persistence.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id int64) error
}
