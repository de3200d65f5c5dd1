package models

// Role distinguishes candidate users from company users.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleCompany   Role = "COMPANY"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// IsCandidate reports whether the user may own Clipers and ATS profiles.
func (u *User) IsCandidate() bool {
	return u.Role == RoleCandidate
}
