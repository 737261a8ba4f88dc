package authdomain

// Role represents a caller's role for authorization purposes.
type Role string

const (
	// RoleArcher may read and write their own shoots.
	RoleArcher Role = "archer"
	// RoleCoach may additionally read any archer's shoots.
	RoleCoach Role = "coach"
	// RoleAdmin may read and write everything, including the round catalogue.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleArcher, RoleCoach, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
