package models

import "time"

// Tenant is an isolated customer organization on the platform.
//
// Each tenant is reachable through its slug as a subdomain label
// (e.g., "acme" for acme.example.com) and through any Domain rows bound
// to it. Deleting a tenant removes its domains and memberships.
type Tenant struct {
	ID string `bson:"_id" json:"id"`

	// Display name
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"` // folded for sorting/search

	// Slug is the subdomain label; unique across all tenants.
	Slug string `bson:"slug" json:"slug"`

	// Status: ACTIVE | TRIAL | SUSPENDED | INACTIVE
	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TenantWithCounts is a list row for the platform tenant directory.
type TenantWithCounts struct {
	Tenant      `bson:",inline"`
	MemberCount int64 `bson:"member_count" json:"memberCount"`
	DomainCount int64 `bson:"domain_count" json:"domainCount"`
}

// TenantDetail is a tenant together with its domains and members.
type TenantDetail struct {
	Tenant
	Domains []Domain           `json:"domains"`
	Members []TenantMemberView `json:"members"`
}
