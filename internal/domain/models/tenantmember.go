package models

import "time"

// Tenant-scoped roles held through a TenantMember row.
const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

// TenantMember links a user to a tenant with a tenant-scoped role.
// (TenantID, UserID) is unique: a user holds at most one role per tenant.
type TenantMember struct {
	ID        string    `bson:"_id" json:"id"`
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	UserID    string    `bson:"user_id" json:"userId"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// MemberUser is the public slice of a User shown next to a membership.
type MemberUser struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// TenantMemberView is a membership joined with its user.
type TenantMemberView struct {
	TenantMember `bson:",inline"`
	User         MemberUser `bson:"user" json:"user"`
}

// IsMemberRole reports whether role is a valid tenant-scoped role.
func IsMemberRole(role string) bool {
	return role == MemberRoleAdmin || role == MemberRoleMember
}
