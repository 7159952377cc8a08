// internal/app/features/tenants/types.go
package tenants

import (
	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
)

// ReservedSlugs cannot be used by tenants; they name platform hosts or
// common service subdomains.
var ReservedSlugs = []string{"www", "api", "admin", "app", "mail", "ftp", "localhost", "static"}

// isReservedSlug also rejects the configured admin label.
func isReservedSlug(slug string, hosts hostname.Config) bool {
	slug = normalize.Slug(slug)
	admin := normalize.Slug(hosts.AdminLabel)
	if admin == "" {
		admin = hostname.DefaultAdminLabel
	}
	if slug == admin {
		return true
	}
	for _, r := range ReservedSlugs {
		if slug == r {
			return true
		}
	}
	return false
}

type idInput struct {
	ID string `json:"id" validate:"required,uuid" label:"Tenant ID"`
}

type createInput struct {
	Name      string `json:"name" validate:"required,max=100" label:"Name"`
	Slug      string `json:"slug" validate:"required,max=63,slug" label:"Slug"`
	Status    string `json:"status" validate:"omitempty,tenantstatus" label:"Status"`
	Email     string `json:"email" validate:"required,email,max=254" label:"Admin email"`
	Password  string `json:"password" validate:"required,min=6,max=200" label:"Admin password"`
	AdminName string `json:"adminName" validate:"omitempty,max=100" label:"Admin name"`
}

type updateInput struct {
	ID     string  `json:"id" validate:"required,uuid" label:"Tenant ID"`
	Name   *string `json:"name" validate:"omitempty,max=100" label:"Name"`
	Slug   *string `json:"slug" validate:"omitempty,max=63" label:"Slug"`
	Status *string `json:"status"`
}
