// Command provision manages login accounts and seed data from the
// terminal, for bootstrapping a deployment before any admin can sign in
// through the API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
	"github.com/teamskills/skills-matrix-api/internal/core/service"
	"github.com/teamskills/skills-matrix-api/internal/infrastructure/config"
	mongodb "github.com/teamskills/skills-matrix-api/internal/infrastructure/db/mongo"
	"github.com/teamskills/skills-matrix-api/pkg/logger"
)

// defaultLevels is the seniority ladder seeded on first deploy.
var defaultLevels = []string{"Junior", "Mid", "Senior", "Staff", "Principal"}

const defaultProject = "Unassigned"

func main() {
	var (
		name    = flag.String("name", "", "display name for the new account")
		email   = flag.String("email", "", "login email (admins)")
		clockID = flag.String("clock-id", "", "clock ID (employees)")
		role    = flag.String("role", "admin", "account role: admin or employee")
		demote  = flag.String("demote", "", "email of the admin to strip admin rights from")
		reset   = flag.String("reset-password", "", "email of the admin whose password to reset")
		seed    = flag.Bool("seed", false, "seed default levels and project")
	)
	flag.Parse()

	cfg, err := config.Load(context.Background())
	if err != nil {
		fatal(err)
	}

	log := logger.Init(logger.Options{Level: "warn", Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		fatal(err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureAllIndexes(ctx, db); err != nil {
		fatal(err)
	}

	principals := mongodb.NewPrincipalRepository(db)
	audit := mongodb.NewAuditRepository(db)
	credentials := service.NewCredentialService(principals, log)

	switch {
	case *seed:
		err = seedCatalogs(ctx, mongodb.NewLevelRepository(db), mongodb.NewProjectRepository(db))
	case *demote != "":
		err = demoteAdmin(ctx, principals, credentials, audit, *demote)
	case *reset != "":
		err = resetPassword(ctx, principals, credentials, audit, *reset)
	default:
		err = provision(ctx, credentials, audit, *name, *email, *clockID, *role)
	}
	if err != nil {
		fatal(err)
	}
}

func provision(ctx context.Context, credentials ports.CredentialService, audit ports.AuditRepository, name, email, clockID, role string) error {
	r := domain.Role(strings.ToLower(role))
	if !r.Valid() {
		return fmt.Errorf("role must be admin or employee, got %q", role)
	}
	if name == "" {
		return fmt.Errorf("-name is required")
	}

	in := ports.ProvisionInput{Name: name, Email: email, ClockID: clockID, Role: r}
	if r == domain.RoleAdmin {
		if email == "" {
			return fmt.Errorf("-email is required for admins")
		}
		password, err := promptPassword()
		if err != nil {
			return err
		}
		in.Password = password
	} else if clockID == "" {
		return fmt.Errorf("-clock-id is required for employees")
	}

	p, err := credentials.Provision(ctx, in)
	if err != nil {
		return err
	}

	recordCLI(ctx, audit, domain.ActionCreate, string(r)+":"+p.ID, "provisioned via cli")
	fmt.Printf("created %s %s (%s)\n", r, p.Name, p.ID)
	return nil
}

func demoteAdmin(ctx context.Context, principals ports.PrincipalRepository, credentials ports.CredentialService, audit ports.AuditRepository, email string) error {
	p, err := principals.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := credentials.Demote(ctx, p.ID); err != nil {
		return err
	}

	recordCLI(ctx, audit, domain.ActionUpdate, "admin:"+p.ID, "admin rights revoked via cli")
	fmt.Printf("revoked admin rights for %s\n", email)
	return nil
}

func resetPassword(ctx context.Context, principals ports.PrincipalRepository, credentials ports.CredentialService, audit ports.AuditRepository, email string) error {
	p, err := principals.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	if err := credentials.SetPassword(ctx, p.ID, password); err != nil {
		return err
	}

	recordCLI(ctx, audit, domain.ActionUpdate, "admin:"+p.ID, "password reset via cli")
	fmt.Printf("password reset for %s\n", email)
	return nil
}

func seedCatalogs(ctx context.Context, levels ports.LevelRepository, projects ports.ProjectRepository) error {
	now := time.Now().UTC()
	for i, name := range defaultLevels {
		err := levels.Create(ctx, &domain.Level{
			ID:        uuid.NewString(),
			Name:      name,
			Order:     i + 1,
			CreatedAt: now,
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicateIdentifier) {
			return err
		}
	}

	err := projects.Create(ctx, &domain.Project{
		ID:        uuid.NewString(),
		Name:      defaultProject,
		CreatedAt: now,
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicateIdentifier) {
		return err
	}

	fmt.Println("seeded default levels and project")
	return nil
}

// promptPassword reads the password twice without echo and requires the
// entries to match.
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	fmt.Print("Confirm: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(first) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	return string(first), nil
}

// recordCLI writes the audit entry synchronously; the process exits
// right after, so the async writer is no use here. A failed write only
// warns, matching the rule that audit problems never block the action.
func recordCLI(ctx context.Context, audit ports.AuditRepository, action domain.ActionKind, entityRef, detail string) {
	err := audit.Insert(ctx, &domain.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   "cli",
		ActorName: "cli",
		Action:    action,
		EntityRef: entityRef,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log := logger.Get()
		log.Warn().Err(err).Str("entity_ref", entityRef).Msg("audit entry not written")
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
