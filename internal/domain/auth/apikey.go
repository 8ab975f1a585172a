// Package auth holds API key identities and their permission scopes.
package auth

import "context"

// Scopes carried by API keys. A key's scope decides the actor role for
// discount approval and staff-only operations.
const (
	ScopeAdmin    = "admin"
	ScopeStaff    = "staff"
	ScopeCustomer = "customer"
)

// APIKeyInfo holds the identity and permission data for a validated API key.
// CustomerID is set only for customer-scoped keys and binds the key to a
// loyalty account.
type APIKeyInfo struct {
	ID         string
	KeyHash    string
	Name       string
	Scopes     []string
	CustomerID string
}

// HasScope reports whether the key carries the given scope.
func (k *APIKeyInfo) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Repository provides lookup of API keys by their HMAC hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
