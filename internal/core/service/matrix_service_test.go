package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

type memEmployeeRepo struct {
	employees map[string]*domain.Employee
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: make(map[string]*domain.Employee)}
}

func (r *memEmployeeRepo) Create(_ context.Context, e *domain.Employee) error {
	for _, existing := range r.employees {
		if existing.Email == e.Email {
			return domain.ErrDuplicateIdentifier
		}
	}
	clone := *e
	r.employees[e.ID] = &clone
	return nil
}

func (r *memEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *memEmployeeRepo) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := r.employees[e.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	clone := *e
	r.employees[e.ID] = &clone
	return nil
}

func (r *memEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r *memEmployeeRepo) List(_ context.Context, filter ports.ListEmployeesFilter) ([]*domain.Employee, int64, error) {
	var out []*domain.Employee
	for _, e := range r.employees {
		if len(filter.IDs) > 0 {
			match := false
			for _, id := range filter.IDs {
				if e.ID == id {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *memEmployeeRepo) CountByLevel(_ context.Context, levelID string) (int64, error) {
	var n int64
	for _, e := range r.employees {
		if e.LevelID == levelID {
			n++
		}
	}
	return n, nil
}

func (r *memEmployeeRepo) CountByProject(_ context.Context, projectID string) (int64, error) {
	var n int64
	for _, e := range r.employees {
		if e.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

type memSkillRepo struct {
	skills map[string]*domain.Skill
}

func newMemSkillRepo() *memSkillRepo {
	return &memSkillRepo{skills: make(map[string]*domain.Skill)}
}

func (r *memSkillRepo) Create(_ context.Context, s *domain.Skill) error {
	clone := *s
	r.skills[s.ID] = &clone
	return nil
}

func (r *memSkillRepo) FindByID(_ context.Context, id string) (*domain.Skill, error) {
	s, ok := r.skills[id]
	if !ok {
		return nil, domain.ErrSkillNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSkillRepo) Update(_ context.Context, s *domain.Skill) error {
	if _, ok := r.skills[s.ID]; !ok {
		return domain.ErrSkillNotFound
	}
	clone := *s
	r.skills[s.ID] = &clone
	return nil
}

func (r *memSkillRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.skills[id]; !ok {
		return domain.ErrSkillNotFound
	}
	delete(r.skills, id)
	return nil
}

func (r *memSkillRepo) List(_ context.Context, _ string, _, _ int) ([]*domain.Skill, int64, error) {
	var out []*domain.Skill
	for _, s := range r.skills {
		clone := *s
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

type memLinkRepo struct {
	links map[string][]*domain.EmployeeSkill
}

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{links: make(map[string][]*domain.EmployeeSkill)}
}

func (r *memLinkRepo) ReplaceForEmployee(_ context.Context, employeeID string, links []*domain.EmployeeSkill) error {
	r.links[employeeID] = links
	return nil
}

func (r *memLinkRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.EmployeeSkill, error) {
	return r.links[employeeID], nil
}

func (r *memLinkRepo) DeleteForEmployee(_ context.Context, employeeID string) error {
	delete(r.links, employeeID)
	return nil
}

func (r *memLinkRepo) CountBySkill(_ context.Context, skillID string) (int64, error) {
	var n int64
	for _, links := range r.links {
		for _, l := range links {
			if l.SkillID == skillID {
				n++
			}
		}
	}
	return n, nil
}

type memLevelRepo struct {
	levels map[string]*domain.Level
}

func newMemLevelRepo() *memLevelRepo {
	return &memLevelRepo{levels: make(map[string]*domain.Level)}
}

func (r *memLevelRepo) Create(_ context.Context, l *domain.Level) error {
	clone := *l
	r.levels[l.ID] = &clone
	return nil
}

func (r *memLevelRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.levels[id]; !ok {
		return domain.ErrLevelNotFound
	}
	delete(r.levels, id)
	return nil
}

func (r *memLevelRepo) List(_ context.Context) ([]*domain.Level, error) {
	var out []*domain.Level
	for _, l := range r.levels {
		clone := *l
		out = append(out, &clone)
	}
	return out, nil
}

type memProjectRepo struct {
	projects map[string]*domain.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[string]*domain.Project)}
}

func (r *memProjectRepo) Create(_ context.Context, p *domain.Project) error {
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

type matrixFixture struct {
	svc        *MatrixService
	employees  *memEmployeeRepo
	skills     *memSkillRepo
	links      *memLinkRepo
	levels     *memLevelRepo
	projects   *memProjectRepo
	principals *stubPrincipalRepo
	audit      *recorderSpy
}

func newMatrixFixture() *matrixFixture {
	f := &matrixFixture{
		employees:  newMemEmployeeRepo(),
		skills:     newMemSkillRepo(),
		links:      newMemLinkRepo(),
		levels:     newMemLevelRepo(),
		projects:   newMemProjectRepo(),
		principals: newStubPrincipalRepo(),
		audit:      &recorderSpy{},
	}
	credentials := NewCredentialService(f.principals, zerolog.Nop())
	f.svc = NewMatrixService(f.employees, f.skills, f.links, f.levels, f.projects,
		f.principals, credentials, f.audit, zerolog.Nop())
	return f
}

var adminActor = ports.Actor{ID: "admin-1", Name: "Alice", Role: domain.RoleAdmin}

func TestMatrixService_CreateEmployee_ProvisionsLogin(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	e, err := f.svc.CreateEmployee(ctx, adminActor, ports.EmployeeInput{
		Name: "Bob", Email: "bob@example.com", ClockID: "1042", JobTitle: "Engineer", LevelID: "l1",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	// Profile and login principal share one id.
	p, err := f.principals.FindByClockID(ctx, "1042")
	if err != nil {
		t.Fatalf("expected login principal for clock ID: %v", err)
	}
	if p.ID != e.ID {
		t.Fatalf("expected shared id, got employee %q principal %q", e.ID, p.ID)
	}
	if p.Role != domain.RoleEmployee {
		t.Fatalf("expected employee-tier principal, got %s", p.Role)
	}

	if len(f.audit.records) != 1 || f.audit.records[0].Action != domain.ActionCreate {
		t.Fatalf("expected create audit record, got %+v", f.audit.records)
	}
}

func TestMatrixService_CreateEmployee_NoClockID(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	e, err := f.svc.CreateEmployee(ctx, adminActor, ports.EmployeeInput{
		Name: "Carol", Email: "carol@example.com", JobTitle: "Designer", LevelID: "l1",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	// No clock ID means no login account.
	if _, err := f.principals.FindByID(ctx, e.ID); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected no principal, got %v", err)
	}
}

func TestMatrixService_DeleteEmployee_RefusesAdmin(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.principals.principals["a2"] = &domain.Principal{ID: "a2", Name: "Root", Role: domain.RoleAdmin}
	f.employees.employees["a2"] = &domain.Employee{ID: "a2", Name: "Root", Email: "root@example.com"}

	if err := f.svc.DeleteEmployee(ctx, adminActor, "a2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden deleting an admin's profile, got %v", err)
	}
}

func TestMatrixService_DeleteEmployee_Cascades(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	e, err := f.svc.CreateEmployee(ctx, adminActor, ports.EmployeeInput{
		Name: "Bob", Email: "bob@example.com", ClockID: "1042", JobTitle: "Engineer", LevelID: "l1",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	f.links.links[e.ID] = []*domain.EmployeeSkill{{EmployeeID: e.ID, SkillID: "s1", Proficiency: 3}}

	if err := f.svc.DeleteEmployee(ctx, adminActor, e.ID); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}

	if _, ok := f.links.links[e.ID]; ok {
		t.Fatalf("expected skill links removed")
	}
	if _, err := f.principals.FindByID(ctx, e.ID); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected principal removed, got %v", err)
	}
}

func TestMatrixService_UpdateEmployeeSkills_Permissions(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.employees.employees["e1"] = &domain.Employee{ID: "e1", Name: "Bob"}
	f.employees.employees["e2"] = &domain.Employee{ID: "e2", Name: "Carol"}
	f.skills.skills["s1"] = &domain.Skill{ID: "s1", Name: "Go"}

	bob := ports.Actor{ID: "e1", Name: "Bob", Role: domain.RoleEmployee}

	// Own row: allowed.
	if err := f.svc.UpdateEmployeeSkills(ctx, bob, "e1", []ports.SkillAssignment{{SkillID: "s1", Proficiency: 4}}); err != nil {
		t.Fatalf("own row update returned error: %v", err)
	}

	// Someone else's row: forbidden.
	err := f.svc.UpdateEmployeeSkills(ctx, bob, "e2", []ports.SkillAssignment{{SkillID: "s1", Proficiency: 4}})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Admin may edit anyone.
	if err := f.svc.UpdateEmployeeSkills(ctx, adminActor, "e2", []ports.SkillAssignment{{SkillID: "s1", Proficiency: 2}}); err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}
}

func TestMatrixService_UpdateEmployeeSkills_Proficiency(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.employees.employees["e1"] = &domain.Employee{ID: "e1", Name: "Bob"}
	f.skills.skills["s1"] = &domain.Skill{ID: "s1", Name: "Go"}

	for _, bad := range []int{0, -1, 6} {
		err := f.svc.UpdateEmployeeSkills(ctx, adminActor, "e1", []ports.SkillAssignment{{SkillID: "s1", Proficiency: bad}})
		if !errors.Is(err, domain.ErrInvalidProficiency) {
			t.Errorf("proficiency %d: expected ErrInvalidProficiency, got %v", bad, err)
		}
	}
}

func TestMatrixService_UpdateEmployeeSkills_TrainingExpiry(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.employees.employees["e1"] = &domain.Employee{ID: "e1", Name: "Bob"}
	f.skills.skills["s1"] = &domain.Skill{ID: "s1", Name: "First Aid", RequiresTraining: true, TrainingExpiryMonths: 12}

	trained := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	err := f.svc.UpdateEmployeeSkills(ctx, adminActor, "e1", []ports.SkillAssignment{
		{SkillID: "s1", Proficiency: 3, LastTrainingDate: &trained},
	})
	if err != nil {
		t.Fatalf("UpdateEmployeeSkills returned error: %v", err)
	}

	links := f.links.links["e1"]
	if len(links) != 1 || links[0].TrainingExpiryDate == nil {
		t.Fatalf("expected one link with expiry, got %+v", links)
	}
	want := time.Date(2027, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !links[0].TrainingExpiryDate.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, links[0].TrainingExpiryDate)
	}
}

func TestMatrixService_Matrix_Scoping(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.employees.employees["e1"] = &domain.Employee{ID: "e1", Name: "Bob"}
	f.employees.employees["e2"] = &domain.Employee{ID: "e2", Name: "Carol"}

	adminView, err := f.svc.Matrix(ctx, adminActor, "")
	if err != nil {
		t.Fatalf("Matrix returned error: %v", err)
	}
	if len(adminView.Rows) != 2 {
		t.Fatalf("admin should see 2 rows, got %d", len(adminView.Rows))
	}

	bobView, err := f.svc.Matrix(ctx, ports.Actor{ID: "e1", Role: domain.RoleEmployee}, "")
	if err != nil {
		t.Fatalf("Matrix returned error: %v", err)
	}
	if len(bobView.Rows) != 1 || bobView.Rows[0].Employee.ID != "e1" {
		t.Fatalf("employee should see only their own row, got %+v", bobView.Rows)
	}
}

func TestMatrixService_DeleteSkill_InUse(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.skills.skills["s1"] = &domain.Skill{ID: "s1", Name: "Go"}
	f.links.links["e1"] = []*domain.EmployeeSkill{{EmployeeID: "e1", SkillID: "s1", Proficiency: 3}}

	if err := f.svc.DeleteSkill(ctx, adminActor, "s1"); !errors.Is(err, domain.ErrSkillInUse) {
		t.Fatalf("expected ErrSkillInUse, got %v", err)
	}

	f.links.links["e1"] = nil
	if err := f.svc.DeleteSkill(ctx, adminActor, "s1"); err != nil {
		t.Fatalf("DeleteSkill returned error: %v", err)
	}
}

func TestMatrixService_DeleteLevelAndProject_InUse(t *testing.T) {
	f := newMatrixFixture()
	ctx := context.Background()

	f.levels.levels["l1"] = &domain.Level{ID: "l1", Name: "Senior"}
	f.projects.projects["p1"] = &domain.Project{ID: "p1", Name: "Apollo"}
	f.employees.employees["e1"] = &domain.Employee{ID: "e1", LevelID: "l1", ProjectID: "p1"}

	if err := f.svc.DeleteLevel(ctx, adminActor, "l1"); !errors.Is(err, domain.ErrLevelInUse) {
		t.Fatalf("expected ErrLevelInUse, got %v", err)
	}
	if err := f.svc.DeleteProject(ctx, adminActor, "p1"); !errors.Is(err, domain.ErrProjectInUse) {
		t.Fatalf("expected ErrProjectInUse, got %v", err)
	}

	delete(f.employees.employees, "e1")
	if err := f.svc.DeleteLevel(ctx, adminActor, "l1"); err != nil {
		t.Fatalf("DeleteLevel returned error: %v", err)
	}
	if err := f.svc.DeleteProject(ctx, adminActor, "p1"); err != nil {
		t.Fatalf("DeleteProject returned error: %v", err)
	}
}
