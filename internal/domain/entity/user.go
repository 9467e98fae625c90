package entity

// Roles válidos para User.
const (
	RoleAdmin = "Admin"
	RoleStaff = "Staff"
)

// User usuario del sistema. Staff queda acotado a una sede (BranchID).
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"` // bcrypt, nunca la contraseña plana
	Role         string `json:"role"`
	BranchID     string `json:"branch_id,omitempty"`
}

func (u User) EntityID() string { return u.ID }

// IsAdmin indica si el usuario ve todas las sedes.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanAccessBranch Admin accede a todas; Staff solo a la suya.
func (u User) CanAccessBranch(branchID string) bool {
	return u.IsAdmin() || (u.BranchID != "" && u.BranchID == branchID)
}
