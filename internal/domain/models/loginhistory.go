package models

import "time"

// LoginRecord is one successful sign-in, kept for the platform's recent
// activity views.
type LoginRecord struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	TenantID  string    `bson:"tenant_id,omitempty" json:"tenantId,omitempty"` // "" on the platform host
	Mode      string    `bson:"mode" json:"mode"`                              // platform | tenant
	Host      string    `bson:"host" json:"host"`
	IP        string    `bson:"ip" json:"ip"`
	UserAgent string    `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
