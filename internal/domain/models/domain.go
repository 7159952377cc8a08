package models

import "time"

// Domain binds a hostname to exactly one tenant.
// Hostname is stored normalized (lowercase, no port, no "www.") and is
// unique across all tenants.
type Domain struct {
	ID        string    `bson:"_id" json:"id"`
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	Hostname  string    `bson:"hostname" json:"hostname"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
