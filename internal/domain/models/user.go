package models

import "time"

// RoleSuperAdmin is the only platform-level role. Superadmins hold no
// tenant memberships.
const RoleSuperAdmin = "superadmin"

// User is a global identity. Tenant roles live in TenantMember rows;
// Role here is the optional platform role.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	NameCI       string    `bson:"name_ci" json:"-"`
	Email        string    `bson:"email" json:"email"` // normalized, unique
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	Role         string    `bson:"role,omitempty" json:"role,omitempty"` // "" | superadmin
	Status       string    `bson:"status" json:"status"`                 // active | disabled
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsSuperAdmin reports whether the user holds the platform superadmin role.
func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
