package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

type stubPrincipalRepo struct {
	principals map[string]*domain.Principal
	nextID     int
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{principals: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	for _, existing := range r.principals {
		if p.Email != "" && existing.Email == p.Email {
			return nil, domain.ErrDuplicateIdentifier
		}
		if p.ClockID != "" && existing.ClockID == p.ClockID {
			return nil, domain.ErrDuplicateIdentifier
		}
	}
	copy := clonePrincipal(p)
	if copy.ID == "" {
		r.nextID++
		copy.ID = string(rune('a' + r.nextID - 1))
	}
	r.principals[copy.ID] = clonePrincipal(copy)
	return copy, nil
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	p, ok := r.principals[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return clonePrincipal(p), nil
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	for _, p := range r.principals {
		if p.Email == email {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) FindByClockID(_ context.Context, clockID string) (*domain.Principal, error) {
	for _, p := range r.principals {
		if p.ClockID == clockID {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	p, ok := r.principals[id]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	p.PasswordHash = hash
	return nil
}

func (r *stubPrincipalRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	p, ok := r.principals[id]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	p.Role = role
	if role != domain.RoleAdmin {
		p.PasswordHash = ""
	}
	return nil
}

func (r *stubPrincipalRepo) UpdateIdentifiers(_ context.Context, id, email, clockID string) error {
	p, ok := r.principals[id]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	p.Email = email
	p.ClockID = clockID
	return nil
}

func (r *stubPrincipalRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.principals[id]; !ok {
		return domain.ErrPrincipalNotFound
	}
	delete(r.principals, id)
	return nil
}

func (r *stubPrincipalRepo) CountAdmins(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.principals {
		if p.Role == domain.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r *stubPrincipalRepo) ListAdmins(_ context.Context) ([]*domain.Principal, error) {
	var admins []*domain.Principal
	for _, p := range r.principals {
		if p.Role == domain.RoleAdmin {
			admins = append(admins, clonePrincipal(p))
		}
	}
	return admins, nil
}

func mustProvision(t *testing.T, svc *CredentialService, in ports.ProvisionInput) *domain.Principal {
	t.Helper()
	p, err := svc.Provision(context.Background(), in)
	if err != nil {
		t.Fatalf("Provision(%+v) returned error: %v", in, err)
	}
	return p
}

func TestCredentialService_Provision_Admin(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())

	p := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "s3cret-pass",
	})

	if p.PasswordHash == "" || p.PasswordHash == "s3cret-pass" {
		t.Fatalf("expected hashed password, got %q", p.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestCredentialService_Provision_Validation(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())
	ctx := context.Background()

	cases := []ports.ProvisionInput{
		{Name: "", Email: "x@example.com", Role: domain.RoleAdmin, Password: "password1"},
		{Name: "NoPass", Email: "x@example.com", Role: domain.RoleAdmin},
		{Name: "NoClock", Role: domain.RoleEmployee},
		{Name: "BadRole", Role: "superuser"},
	}
	for _, in := range cases {
		if _, err := svc.Provision(ctx, in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Provision(%+v): expected ErrInvalidCredentials, got %v", in, err)
		}
	}
}

func TestCredentialService_Provision_Duplicate(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())

	mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "password1",
	})

	_, err := svc.Provision(context.Background(), ports.ProvisionInput{
		Name: "Other", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "password2",
	})
	if !errors.Is(err, domain.ErrDuplicateIdentifier) {
		t.Fatalf("expected ErrDuplicateIdentifier, got %v", err)
	}
}

func TestCredentialService_VerifyAdmin(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())
	mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "s3cret-pass",
	})

	ctx := context.Background()

	p, err := svc.VerifyAdmin(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("VerifyAdmin returned error: %v", err)
	}
	if p.Name != "Alice" {
		t.Fatalf("unexpected principal: %+v", p)
	}

	// Unknown email and wrong password must be indistinguishable.
	if _, err := svc.VerifyAdmin(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyAdmin(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyAdmin(ctx, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty input: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialService_VerifyAdmin_EqualCostOnMiss(t *testing.T) {
	// Every failed verification must run exactly one bcrypt comparison:
	// against the stored hash when the account exists, against the
	// internal dummy hash when it does not.
	repo := newStubPrincipalRepo()
	svc := NewCredentialService(repo, zerolog.Nop())
	alice := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "s3cret-pass",
	})

	var compared [][]byte
	orig := compareHashAndPassword
	compareHashAndPassword = func(hash, password []byte) error {
		compared = append(compared, hash)
		return orig(hash, password)
	}
	defer func() { compareHashAndPassword = orig }()

	ctx := context.Background()
	storedHash := repo.principals[alice.ID].PasswordHash

	if _, err := svc.VerifyAdmin(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if len(compared) != 1 {
		t.Fatalf("unknown email: expected exactly 1 bcrypt comparison, got %d", len(compared))
	}
	if string(compared[0]) == storedHash {
		t.Fatalf("unknown email: expected comparison against the dummy hash, not a stored one")
	}

	compared = nil
	if _, err := svc.VerifyAdmin(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if len(compared) != 1 || string(compared[0]) != storedHash {
		t.Fatalf("wrong password: expected exactly 1 comparison against the stored hash, got %d", len(compared))
	}
}

func TestCredentialService_SetPassword(t *testing.T) {
	repo := newStubPrincipalRepo()
	svc := NewCredentialService(repo, zerolog.Nop())
	ctx := context.Background()

	p := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "old-password",
	})
	oldHash := repo.principals[p.ID].PasswordHash

	if err := svc.SetPassword(ctx, p.ID, "new-password"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	if repo.principals[p.ID].PasswordHash == oldHash {
		t.Fatalf("expected a fresh hash after SetPassword")
	}

	// The old password is dead, the new one works.
	if _, err := svc.VerifyAdmin(ctx, "alice@example.com", "old-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyAdmin(ctx, "alice@example.com", "new-password"); err != nil {
		t.Fatalf("new password: VerifyAdmin returned error: %v", err)
	}
}

func TestCredentialService_SetPassword_Rejections(t *testing.T) {
	repo := newStubPrincipalRepo()
	svc := NewCredentialService(repo, zerolog.Nop())
	ctx := context.Background()

	p := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "old-password",
	})

	if err := svc.SetPassword(ctx, p.ID, ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty plaintext: expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.SetPassword(ctx, "missing", "new-password"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("unknown principal: expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestCredentialService_VerifyEmployee(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())
	mustProvision(t, svc, ports.ProvisionInput{
		Name: "Bob", ClockID: "1042", Role: domain.RoleEmployee,
	})

	ctx := context.Background()

	p, err := svc.VerifyEmployee(ctx, "1042")
	if err != nil {
		t.Fatalf("VerifyEmployee returned error: %v", err)
	}
	if p.Name != "Bob" {
		t.Fatalf("unexpected principal: %+v", p)
	}

	if _, err := svc.VerifyEmployee(ctx, "9999"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown clock ID: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.VerifyEmployee(ctx, ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty clock ID: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialService_VerifyEmployee_AdminExcluded(t *testing.T) {
	// An admin who happens to carry a clock ID must still never pass the
	// low-assurance tier.
	repo := newStubPrincipalRepo()
	svc := NewCredentialService(repo, zerolog.Nop())

	p := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Carol", Email: "carol@example.com", Role: domain.RoleAdmin, Password: "password1",
	})
	repo.principals[p.ID].ClockID = "7001"

	if _, err := svc.VerifyEmployee(context.Background(), "7001"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for admin clock ID, got %v", err)
	}
}

func TestCredentialService_Demote_LastAdmin(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())
	p := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "password1",
	})

	if err := svc.Demote(context.Background(), p.ID); !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
}

func TestCredentialService_Demote(t *testing.T) {
	repo := newStubPrincipalRepo()
	svc := NewCredentialService(repo, zerolog.Nop())
	ctx := context.Background()

	first := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "password1",
	})
	second := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Dan", Email: "dan@example.com", Role: domain.RoleAdmin, Password: "password2",
	})

	if err := svc.Demote(ctx, second.ID); err != nil {
		t.Fatalf("Demote returned error: %v", err)
	}

	demoted := repo.principals[second.ID]
	if demoted.Role != domain.RoleEmployee {
		t.Fatalf("expected employee role after demote, got %s", demoted.Role)
	}
	if demoted.PasswordHash != "" {
		t.Fatalf("expected password hash cleared after demote")
	}

	// Demoting a non-admin is a distinct failure.
	if err := svc.Demote(ctx, second.ID); !errors.Is(err, domain.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	// The remaining admin is now the last one.
	if err := svc.Demote(ctx, first.ID); !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
}

func TestCredentialService_Remove_LastAdmin(t *testing.T) {
	svc := NewCredentialService(newStubPrincipalRepo(), zerolog.Nop())
	p := mustProvision(t, svc, ports.ProvisionInput{
		Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin, Password: "password1",
	})

	if err := svc.Remove(context.Background(), p.ID); !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
}
