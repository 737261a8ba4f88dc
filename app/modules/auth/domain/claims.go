package authdomain

import "time"

// Claims represents the domain model for authentication claims.
type Claims struct {
	ArcherID  string
	Name      string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// CanRead reports whether the caller may see shoots owned by archerID.
func (c *Claims) CanRead(archerID string) bool {
	return c.ArcherID == archerID || c.Role == RoleCoach || c.Role == RoleAdmin
}

// CanWrite reports whether the caller may change shoots owned by archerID.
func (c *Claims) CanWrite(archerID string) bool {
	return c.ArcherID == archerID || c.Role == RoleAdmin
}

// CanManageCatalogue reports whether the caller may import rounds.
func (c *Claims) CanManageCatalogue() bool {
	return c.Role == RoleAdmin
}
