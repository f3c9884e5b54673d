package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// compareHashAndPassword is swapped out in tests to observe which hash a
// verification path compares against.
var compareHashAndPassword = bcrypt.CompareHashAndPassword

// CredentialService implements principal provisioning and verification.
type CredentialService struct {
	repo      ports.PrincipalRepository
	logger    zerolog.Logger
	dummyHash []byte
}

func NewCredentialService(repo ports.PrincipalRepository, logger zerolog.Logger) *CredentialService {
	// Compared against whenever the principal lookup misses, so a failed
	// login takes the same bcrypt path whether the identifier exists or
	// not (bounded timing variance).
	dummy, err := bcrypt.GenerateFromPassword([]byte("skills-matrix-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("credential service: generate dummy hash: %v", err))
	}
	return &CredentialService{repo: repo, logger: logger, dummyHash: dummy}
}

// VerifyAdmin authenticates an admin by email and password. Unknown
// identifier and wrong password both come back as
// domain.ErrInvalidCredentials.
func (s *CredentialService) VerifyAdmin(ctx context.Context, email, password string) (*domain.Principal, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		_ = compareHashAndPassword(s.dummyHash, []byte(password))
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify admin: %w", err)
	}

	if p.Role != domain.RoleAdmin || p.PasswordHash == "" {
		_ = compareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}

	if compareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return p, nil
}

// VerifyEmployee authenticates by bare clock ID. Only employee-role
// principals match; admins always authenticate with email and password.
func (s *CredentialService) VerifyEmployee(ctx context.Context, clockID string) (*domain.Principal, error) {
	if clockID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.repo.FindByClockID(ctx, clockID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify employee: %w", err)
	}

	if p.Role != domain.RoleEmployee {
		return nil, domain.ErrInvalidCredentials
	}

	return p, nil
}

// SetPassword computes and stores a fresh salted hash for the principal.
func (s *CredentialService) SetPassword(ctx context.Context, principalID, plaintext string) error {
	if plaintext == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, principalID, string(hash)); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	s.logger.Info().Str("principal_id", principalID).Msg("password updated")
	return nil
}

// Provision creates a new principal. Admins get a password hash,
// employees a bare clock ID; a colliding email or clock ID fails with
// domain.ErrDuplicateIdentifier.
func (s *CredentialService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.Principal, error) {
	if in.Name == "" || !in.Role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Role == domain.RoleAdmin && (in.Email == "" || in.Password == "") {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Role == domain.RoleEmployee && in.ClockID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	p := &domain.Principal{
		Name:      in.Name,
		Email:     in.Email,
		ClockID:   in.ClockID,
		Role:      in.Role,
		CreatedAt: time.Now().UTC(),
	}

	if in.Role == domain.RoleAdmin {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("provision: %w", err)
		}
		p.PasswordHash = string(hash)
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("principal_id", created.ID).
		Str("role", string(created.Role)).
		Msg("principal provisioned")
	return created, nil
}

// Demote strips the admin role from a principal, clearing the password
// hash. Demoting the last remaining admin is rejected to avoid lockout.
func (s *CredentialService) Demote(ctx context.Context, principalID string) error {
	p, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		return err
	}
	if p.Role != domain.RoleAdmin {
		return domain.ErrNotAdmin
	}

	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("demote: %w", err)
	}
	if count <= 1 {
		return domain.ErrLastAdmin
	}

	if err := s.repo.SetRole(ctx, principalID, domain.RoleEmployee); err != nil {
		return fmt.Errorf("demote: %w", err)
	}

	s.logger.Info().Str("principal_id", principalID).Msg("admin demoted")
	return nil
}

// Remove deletes a principal. The last remaining admin cannot be removed.
func (s *CredentialService) Remove(ctx context.Context, principalID string) error {
	p, err := s.repo.FindByID(ctx, principalID)
	if err != nil {
		return err
	}

	if p.Role == domain.RoleAdmin {
		count, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("remove principal: %w", err)
		}
		if count <= 1 {
			return domain.ErrLastAdmin
		}
	}

	if err := s.repo.Delete(ctx, principalID); err != nil {
		return fmt.Errorf("remove principal: %w", err)
	}

	s.logger.Info().Str("principal_id", principalID).Msg("principal removed")
	return nil
}

// ListAdmins returns all principals carrying the admin role.
func (s *CredentialService) ListAdmins(ctx context.Context) ([]*domain.Principal, error) {
	return s.repo.ListAdmins(ctx)
}
