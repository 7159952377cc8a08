package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/status"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemStore is an in-memory store.Set for handler and procedure tests. It
// keeps the uniqueness and cascade rules of the real backends.
//
// Fail injects an error into one operation, keyed "<store>.<method>"
// (e.g. "users.create"). The error is returned on every call until removed.
type MemStore struct {
	mu      sync.Mutex
	tenants map[string]models.Tenant
	domains map[string]models.Domain
	members map[string]models.TenantMember
	users   map[string]models.User
	logins  []models.LoginRecord
	resets  map[string]models.PasswordReset // by token hash
	clock   time.Time

	Fail map[string]error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		tenants: map[string]models.Tenant{},
		domains: map[string]models.Domain{},
		members: map[string]models.TenantMember{},
		users:   map[string]models.User{},
		resets:  map[string]models.PasswordReset{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:    map[string]error{},
	}
}

// Set exposes m through the store contracts.
func (m *MemStore) Set() store.Set {
	return store.Set{
		Tenants: memTenants{m},
		Domains: memDomains{m},
		Members: memMembers{m},
		Users:   memUsers{m},
		Logins:  memLogins{m},
		Resets:  memResets{m},
		Ping:    func(context.Context) error { return m.fail("ping") },
		Driver:  "memory",
	}
}

// Logins returns a copy of every recorded sign-in, oldest first.
func (m *MemStore) Logins() []models.LoginRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.LoginRecord(nil), m.logins...)
}

// Resets returns every stored password reset grant.
func (m *MemStore) Resets() []models.PasswordReset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PasswordReset, 0, len(m.resets))
	for _, pr := range m.resets {
		out = append(out, pr)
	}
	return out
}

func (m *MemStore) fail(op string) error { return m.Fail[op] }

// now returns strictly increasing timestamps so newest-first ordering is
// deterministic.
func (m *MemStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

/*─────────────────────────────────────────────────────────────────────────────*
| tenants                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type memTenants struct{ m *MemStore }

func (s memTenants) Create(_ context.Context, t models.Tenant) (models.Tenant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.create"); err != nil {
		return models.Tenant{}, err
	}
	t.ID = uuid.NewString()
	t.Name = normalize.Name(t.Name)
	t.NameCI = text.Fold(t.Name)
	t.Slug = normalize.Slug(t.Slug)
	t.Status = status.Normalize(t.Status)
	if t.Status == "" {
		t.Status = status.DefaultTenant
	}
	if s.slugTaken(t.Slug, "") {
		return models.Tenant{}, models.ErrDuplicateSlug
	}
	t.CreatedAt = s.m.now()
	t.UpdatedAt = t.CreatedAt
	s.m.tenants[t.ID] = t
	return t, nil
}

func (s memTenants) slugTaken(slug, exceptID string) bool {
	for _, t := range s.m.tenants {
		if t.Slug == slug && t.ID != exceptID {
			return true
		}
	}
	return false
}

func (s memTenants) GetByID(_ context.Context, id string) (models.Tenant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.getbyid"); err != nil {
		return models.Tenant{}, err
	}
	t, ok := s.m.tenants[id]
	if !ok {
		return models.Tenant{}, models.ErrNotFound
	}
	return t, nil
}

func (s memTenants) TenantBySlug(_ context.Context, slug string) (models.Tenant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.tenantbyslug"); err != nil {
		return models.Tenant{}, err
	}
	slug = normalize.Slug(slug)
	for _, t := range s.m.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return models.Tenant{}, models.ErrNotFound
}

func (s memTenants) TenantByHostname(_ context.Context, hostname string) (models.Tenant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.tenantbyhostname"); err != nil {
		return models.Tenant{}, err
	}
	for _, d := range s.m.domains {
		if d.Hostname == hostname {
			if t, ok := s.m.tenants[d.TenantID]; ok {
				return t, nil
			}
		}
	}
	return models.Tenant{}, models.ErrNotFound
}

func (s memTenants) ListWithCounts(context.Context) ([]models.TenantWithCounts, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.listwithcounts"); err != nil {
		return nil, err
	}
	out := make([]models.TenantWithCounts, 0, len(s.m.tenants))
	for _, t := range s.m.tenants {
		row := models.TenantWithCounts{Tenant: t}
		for _, mb := range s.m.members {
			if mb.TenantID == t.ID {
				row.MemberCount++
			}
		}
		for _, d := range s.m.domains {
			if d.TenantID == t.ID {
				row.DomainCount++
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s memTenants) Update(_ context.Context, id string, upd store.TenantUpdate) (models.Tenant, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.update"); err != nil {
		return models.Tenant{}, err
	}
	t, ok := s.m.tenants[id]
	if !ok {
		return models.Tenant{}, models.ErrNotFound
	}
	if upd.Name != nil {
		t.Name = normalize.Name(*upd.Name)
		t.NameCI = text.Fold(t.Name)
	}
	if upd.Slug != nil {
		slug := normalize.Slug(*upd.Slug)
		if s.slugTaken(slug, id) {
			return models.Tenant{}, models.ErrDuplicateSlug
		}
		t.Slug = slug
	}
	if upd.Status != nil {
		t.Status = status.Normalize(*upd.Status)
	}
	t.UpdatedAt = s.m.now()
	s.m.tenants[id] = t
	return t, nil
}

func (s memTenants) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("tenants.delete"); err != nil {
		return err
	}
	if _, ok := s.m.tenants[id]; !ok {
		return models.ErrNotFound
	}
	for k, d := range s.m.domains {
		if d.TenantID == id {
			delete(s.m.domains, k)
		}
	}
	for k, mb := range s.m.members {
		if mb.TenantID == id {
			delete(s.m.members, k)
		}
	}
	delete(s.m.tenants, id)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| domains                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type memDomains struct{ m *MemStore }

func (s memDomains) Create(_ context.Context, d models.Domain) (models.Domain, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("domains.create"); err != nil {
		return models.Domain{}, err
	}
	for _, x := range s.m.domains {
		if x.Hostname == d.Hostname {
			return models.Domain{}, models.ErrDuplicateHostname
		}
	}
	d.ID = uuid.NewString()
	d.CreatedAt = s.m.now()
	s.m.domains[d.ID] = d
	return d, nil
}

func (s memDomains) GetByID(_ context.Context, id string) (models.Domain, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d, ok := s.m.domains[id]
	if !ok {
		return models.Domain{}, models.ErrNotFound
	}
	return d, nil
}

func (s memDomains) ListByTenant(_ context.Context, tenantID string) ([]models.Domain, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("domains.listbytenant"); err != nil {
		return nil, err
	}
	out := []models.Domain{}
	for _, d := range s.m.domains {
		if d.TenantID == tenantID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hostname < out[j].Hostname })
	return out, nil
}

func (s memDomains) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.domains[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.m.domains, id)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| members                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type memMembers struct{ m *MemStore }

func (s memMembers) Create(_ context.Context, mb models.TenantMember) (models.TenantMember, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("members.create"); err != nil {
		return models.TenantMember{}, err
	}
	mb.Role = normalize.Role(mb.Role)
	if mb.Role == "" {
		mb.Role = models.MemberRoleMember
	}
	for _, x := range s.m.members {
		if x.TenantID == mb.TenantID && x.UserID == mb.UserID {
			return models.TenantMember{}, models.ErrDuplicateMember
		}
	}
	mb.ID = uuid.NewString()
	mb.CreatedAt = s.m.now()
	mb.UpdatedAt = mb.CreatedAt
	s.m.members[mb.ID] = mb
	return mb, nil
}

func (s memMembers) GetByID(_ context.Context, id string) (models.TenantMember, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	mb, ok := s.m.members[id]
	if !ok {
		return models.TenantMember{}, models.ErrNotFound
	}
	return mb, nil
}

func (s memMembers) Get(_ context.Context, tenantID, userID string) (models.TenantMember, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("members.get"); err != nil {
		return models.TenantMember{}, err
	}
	for _, mb := range s.m.members {
		if mb.TenantID == tenantID && mb.UserID == userID {
			return mb, nil
		}
	}
	return models.TenantMember{}, models.ErrNotFound
}

func (s memMembers) ListByTenant(_ context.Context, tenantID string) ([]models.TenantMemberView, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []models.TenantMemberView{}
	for _, mb := range s.m.members {
		if mb.TenantID != tenantID {
			continue
		}
		u := s.m.users[mb.UserID]
		out = append(out, models.TenantMemberView{
			TenantMember: mb,
			User:         models.MemberUser{ID: u.ID, Name: u.Name, Email: u.Email},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s memMembers) UpdateRole(_ context.Context, id, role string) (models.TenantMember, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	mb, ok := s.m.members[id]
	if !ok {
		return models.TenantMember{}, models.ErrNotFound
	}
	mb.Role = normalize.Role(role)
	mb.UpdatedAt = s.m.now()
	s.m.members[id] = mb
	return mb, nil
}

func (s memMembers) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.members[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.m.members, id)
	return nil
}

func (s memMembers) HasAnyMembership(_ context.Context, userID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("members.hasanymembership"); err != nil {
		return false, err
	}
	for _, mb := range s.m.members {
		if mb.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s memMembers) IsMember(_ context.Context, tenantID, userID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("members.ismember"); err != nil {
		return false, err
	}
	for _, mb := range s.m.members {
		if mb.TenantID == tenantID && mb.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| users                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type memUsers struct{ m *MemStore }

func (s memUsers) Create(_ context.Context, u models.User) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("users.create"); err != nil {
		return models.User{}, err
	}
	u.ID = uuid.NewString()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Status == "" {
		u.Status = status.UserActive
	}
	for _, x := range s.m.users {
		if x.Email == u.Email {
			return models.User{}, models.ErrDuplicateEmail
		}
	}
	u.CreatedAt = s.m.now()
	u.UpdatedAt = u.CreatedAt
	s.m.users[u.ID] = u
	return u, nil
}

func (s memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("users.getbyid"); err != nil {
		return models.User{}, err
	}
	u, ok := s.m.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("users.getbyemail"); err != nil {
		return models.User{}, err
	}
	email = normalize.Email(email)
	for _, u := range s.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (s memUsers) SetRole(_ context.Context, id, role string) error {
	return s.update(id, func(u *models.User) { u.Role = normalize.Role(role) })
}

func (s memUsers) SetPasswordHash(_ context.Context, id, hash string) error {
	return s.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (s memUsers) update(id string, fn func(*models.User)) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return models.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = s.m.now()
	s.m.users[id] = u
	return nil
}

func (s memUsers) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return models.ErrNotFound
	}
	for k, mb := range s.m.members {
		if mb.UserID == id {
			delete(s.m.members, k)
		}
	}
	delete(s.m.users, id)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| logins                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type memLogins struct{ m *MemStore }

func (s memLogins) Create(_ context.Context, rec models.LoginRecord) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("logins.create"); err != nil {
		return err
	}
	rec.ID = uuid.NewString()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.m.now()
	}
	s.m.logins = append(s.m.logins, rec)
	return nil
}

func (s memLogins) RecentByTenant(_ context.Context, tenantID string, limit int64) ([]models.LoginRecord, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := []models.LoginRecord{}
	for i := len(s.m.logins) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if s.m.logins[i].TenantID == tenantID {
			out = append(out, s.m.logins[i])
		}
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| password resets                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type memResets struct{ m *MemStore }

func (s memResets) Create(_ context.Context, pr models.PasswordReset) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("resets.create"); err != nil {
		return err
	}
	if _, ok := s.m.resets[pr.TokenHash]; ok {
		return errors.New("duplicate token hash")
	}
	pr.ID = uuid.NewString()
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = s.m.now()
	}
	s.m.resets[pr.TokenHash] = pr
	return nil
}

func (s memResets) Consume(_ context.Context, tokenHash string, now time.Time) (models.PasswordReset, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("resets.consume"); err != nil {
		return models.PasswordReset{}, err
	}
	pr, ok := s.m.resets[tokenHash]
	if !ok || pr.UsedAt != nil || !pr.ExpiresAt.After(now) {
		return models.PasswordReset{}, models.ErrNotFound
	}
	used := now
	pr.UsedAt = &used
	s.m.resets[tokenHash] = pr
	return pr, nil
}

func (s memResets) DeleteByUser(_ context.Context, userID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.m.fail("resets.deletebyuser"); err != nil {
		return err
	}
	for h, pr := range s.m.resets {
		if pr.UserID == userID {
			delete(s.m.resets, h)
		}
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| seeding                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// SeedTenant stores a tenant with the given status.
func (m *MemStore) SeedTenant(t *testing.T, name, slug, st string) models.Tenant {
	t.Helper()
	tn, err := memTenants{m}.Create(context.Background(), models.Tenant{Name: name, Slug: slug, Status: st})
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return tn
}

// SeedDomain binds hostname to tenantID.
func (m *MemStore) SeedDomain(t *testing.T, tenantID, hostname string) models.Domain {
	t.Helper()
	d, err := memDomains{m}.Create(context.Background(), models.Domain{TenantID: tenantID, Hostname: hostname})
	if err != nil {
		t.Fatalf("seed domain: %v", err)
	}
	return d
}

// SeedUser stores a user whose password is TestPassword.
func (m *MemStore) SeedUser(t *testing.T, name, email, role, st string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := memUsers{m}.Create(context.Background(), models.User{
		Name: name, Email: email, Role: role, Status: st, PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedMember adds userID to tenantID with role.
func (m *MemStore) SeedMember(t *testing.T, tenantID, userID, role string) models.TenantMember {
	t.Helper()
	mb, err := memMembers{m}.Create(context.Background(), models.TenantMember{TenantID: tenantID, UserID: userID, Role: role})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return mb
}
