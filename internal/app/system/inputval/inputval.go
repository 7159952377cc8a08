// Package inputval validates decoded request input with struct tags.
//
//	type createInput struct {
//		Name string `json:"name" validate:"required,max=100" label:"Name"`
//		Slug string `json:"slug" validate:"required,slug" label:"Slug"`
//	}
//
// Validate returns human-readable messages built from the label tag.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/tenanthub/internal/app/system/hostname"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		must(v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		}))
		must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return normalize.IsValidSlug(fl.Field().String())
		}))
		must(v.RegisterValidation("tenantstatus", func(fl validator.FieldLevel) bool {
			return status.IsValid(status.Normalize(fl.Field().String()))
		}))
		must(v.RegisterValidation("memberrole", func(fl validator.FieldLevel) bool {
			return models.IsMemberRole(normalize.Role(fl.Field().String()))
		}))
		must(v.RegisterValidation("anyrole", func(fl validator.FieldLevel) bool {
			r := normalize.Role(fl.Field().String())
			return r == models.RoleSuperAdmin || models.IsMemberRole(r)
		}))
		// domainhost accepts what hostname.Normalize turns into a dotted
		// RFC 1123 name; ports, case and a leading "www." are tolerated.
		must(v.RegisterValidation("domainhost", func(fl validator.FieldLevel) bool {
			h := hostname.Normalize(fl.Field().String())
			return strings.Contains(h, ".") && v.Var(h, "hostname_rfc1123") == nil
		}))
		validate = v
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks v (a struct or pointer to struct) against its validate tags.
func Validate(v any) Result {
	err := engine().Struct(v)
	if err == nil {
		return Result{}
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return Result{Errors: []FieldError{{Message: "Invalid input."}}}
	}
	out := Result{Errors: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "slug":
		return fmt.Sprintf("%s may contain only lowercase letters, numbers and hyphens, and cannot start or end with a hyphen.", label)
	case "tenantstatus":
		return fmt.Sprintf("%s must be one of ACTIVE, TRIAL, SUSPENDED or INACTIVE.", label)
	case "memberrole":
		return fmt.Sprintf("%s must be admin or member.", label)
	case "anyrole":
		return fmt.Sprintf("%s must be superadmin, admin or member.", label)
	case "domainhost":
		return fmt.Sprintf("%s must be a hostname such as portal.example.org.", label)
	case "uuid":
		return fmt.Sprintf("%s must be a valid ID.", label)
	}
	return fmt.Sprintf("%s is invalid.", label)
}

const localSpecials = "!#$%&'*+/=?^_`{|}~.-"

// IsValidEmail reports whether s is a bare addr-spec (no display name).
// Single-label domains such as "localhost" are accepted.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if !dotAtom(local, func(r rune) bool {
		return isAlnum(r) || strings.ContainsRune(localSpecials, r)
	}) {
		return false
	}
	return dotAtom(domain, func(r rune) bool { return isAlnum(r) || r == '-' })
}

// dotAtom checks dot-separated, non-empty atoms made of allowed runes.
func dotAtom(s string, allowed func(rune) bool) bool {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r == '.' || !allowed(r) {
				return false
			}
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
