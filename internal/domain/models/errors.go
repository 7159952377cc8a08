package models

import "errors"

// Store sentinels shared by every storage backend.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSlug     = errors.New("a tenant with this slug already exists")
	ErrDuplicateHostname = errors.New("this hostname is already bound to a tenant")
	ErrDuplicateMember   = errors.New("user is already a member of this tenant")
	ErrDuplicateEmail    = errors.New("a user with this email already exists")
)
