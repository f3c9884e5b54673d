package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

const (
	defaultListPageSize = 10
	maxListPageSize     = 100
)

// MatrixService implements the skills-matrix use cases. Every mutation
// records an audit entry after the primary effect succeeds.
type MatrixService struct {
	employees   ports.EmployeeRepository
	skills      ports.SkillRepository
	links       ports.EmployeeSkillRepository
	levels      ports.LevelRepository
	projects    ports.ProjectRepository
	principals  ports.PrincipalRepository
	credentials ports.CredentialService
	audit       ports.AuditRecorder
	logger      zerolog.Logger
}

func NewMatrixService(
	employees ports.EmployeeRepository,
	skills ports.SkillRepository,
	links ports.EmployeeSkillRepository,
	levels ports.LevelRepository,
	projects ports.ProjectRepository,
	principals ports.PrincipalRepository,
	credentials ports.CredentialService,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *MatrixService {
	return &MatrixService{
		employees:   employees,
		skills:      skills,
		links:       links,
		levels:      levels,
		projects:    projects,
		principals:  principals,
		credentials: credentials,
		audit:       audit,
		logger:      logger,
	}
}

// Matrix returns the caller's visible slice of the matrix: every
// employee for admins, the caller's own row for employees.
func (s *MatrixService) Matrix(ctx context.Context, actor ports.Actor, search string) (*ports.MatrixView, error) {
	filter := ports.ListEmployeesFilter{Search: search}
	if actor.Role != domain.RoleAdmin {
		filter.IDs = []string{actor.ID}
	}

	employees, _, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}

	rows := make([]ports.MatrixRow, 0, len(employees))
	for _, e := range employees {
		links, err := s.links.ListByEmployee(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("matrix: skills for %s: %w", e.ID, err)
		}
		rows = append(rows, ports.MatrixRow{Employee: e, Skills: links})
	}

	allSkills, _, err := s.skills.List(ctx, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}

	return &ports.MatrixView{Rows: rows, Skills: allSkills}, nil
}

// CreateEmployee inserts a profile and, when a clock ID is supplied,
// provisions the matching employee-tier login principal.
func (s *MatrixService) CreateEmployee(ctx context.Context, actor ports.Actor, in ports.EmployeeInput) (*domain.Employee, error) {
	id := uuid.NewString()
	if in.ClockID != "" {
		p, err := s.credentials.Provision(ctx, ports.ProvisionInput{
			Name:    in.Name,
			Email:   in.Email,
			ClockID: in.ClockID,
			Role:    domain.RoleEmployee,
		})
		if err != nil {
			return nil, err
		}
		id = p.ID
	}

	e := &domain.Employee{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		ClockID:   in.ClockID,
		JobTitle:  in.JobTitle,
		LevelID:   in.LevelID,
		ProjectID: in.ProjectID,
		StartDate: in.StartDate,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.employees.Create(ctx, e); err != nil {
		if in.ClockID != "" {
			_ = s.credentials.Remove(ctx, id)
		}
		return nil, err
	}

	s.logger.Info().Str("employee_id", e.ID).Str("actor_id", actor.ID).Msg("employee created")
	s.audit.Record(actor, domain.ActionCreate, "employee:"+e.ID, e.Name)
	return e, nil
}

// UpdateEmployee applies the input to an existing profile and keeps the
// login identifiers in sync.
func (s *MatrixService) UpdateEmployee(ctx context.Context, actor ports.Actor, id string, in ports.EmployeeInput) (*domain.Employee, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Name = in.Name
	e.Email = in.Email
	e.ClockID = in.ClockID
	e.JobTitle = in.JobTitle
	e.LevelID = in.LevelID
	e.ProjectID = in.ProjectID
	e.StartDate = in.StartDate

	if err := s.employees.Update(ctx, e); err != nil {
		return nil, err
	}

	if err := s.principals.UpdateIdentifiers(ctx, id, in.Email, in.ClockID); err != nil &&
		!errors.Is(err, domain.ErrPrincipalNotFound) {
		return nil, fmt.Errorf("update employee: sync principal: %w", err)
	}

	s.audit.Record(actor, domain.ActionUpdate, "employee:"+e.ID, e.Name)
	return e, nil
}

// DeleteEmployee removes the profile, its skill links, and its login
// principal. Admin principals are never deleted through this path.
func (s *MatrixService) DeleteEmployee(ctx context.Context, actor ports.Actor, id string) error {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return err
	}

	p, err := s.principals.FindByID(ctx, id)
	if err == nil && p.Role == domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.links.DeleteForEmployee(ctx, id); err != nil {
		return fmt.Errorf("delete employee: skill links: %w", err)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	if p != nil {
		if err := s.credentials.Remove(ctx, id); err != nil && !errors.Is(err, domain.ErrPrincipalNotFound) {
			s.logger.Warn().Err(err).Str("employee_id", id).Msg("orphaned principal after employee delete")
		}
	}

	s.logger.Info().Str("employee_id", id).Str("actor_id", actor.ID).Msg("employee deleted")
	s.audit.Record(actor, domain.ActionDelete, "employee:"+id, e.Name)
	return nil
}

// ListEmployees returns a page of employee profiles.
func (s *MatrixService) ListEmployees(ctx context.Context, search string, page, limit int) (*ports.ListEmployeesResult, error) {
	page, limit = normalizePage(page, limit)

	items, total, err := s.employees.List(ctx, ports.ListEmployeesFilter{
		Search: search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	return &ports.ListEmployeesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateEmployeeSkills replaces the employee's skill set. Employees may
// only update their own skills; admins may update anyone's.
func (s *MatrixService) UpdateEmployeeSkills(ctx context.Context, actor ports.Actor, employeeID string, assignments []ports.SkillAssignment) error {
	if actor.Role != domain.RoleAdmin && actor.ID != employeeID {
		return domain.ErrForbidden
	}

	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return err
	}

	now := time.Now().UTC()
	links := make([]*domain.EmployeeSkill, 0, len(assignments))
	for _, a := range assignments {
		if a.Proficiency < 1 || a.Proficiency > 5 {
			return domain.ErrInvalidProficiency
		}

		skill, err := s.skills.FindByID(ctx, a.SkillID)
		if err != nil {
			return err
		}

		link := &domain.EmployeeSkill{
			EmployeeID:       employeeID,
			SkillID:          skill.ID,
			Proficiency:      a.Proficiency,
			LastTrainingDate: a.LastTrainingDate,
			UpdatedAt:        now,
		}
		if skill.RequiresTraining && skill.TrainingExpiryMonths > 0 && a.LastTrainingDate != nil {
			expiry := domain.TrainingExpiry(*a.LastTrainingDate, skill.TrainingExpiryMonths)
			link.TrainingExpiryDate = &expiry
		}
		links = append(links, link)
	}

	if err := s.links.ReplaceForEmployee(ctx, employeeID, links); err != nil {
		return fmt.Errorf("update employee skills: %w", err)
	}

	s.audit.Record(actor, domain.ActionUpdate, "employee_skills:"+employeeID,
		fmt.Sprintf("%d skills", len(links)))
	return nil
}

// CreateSkill adds a skill to the catalog.
func (s *MatrixService) CreateSkill(ctx context.Context, actor ports.Actor, in ports.SkillInput) (*domain.Skill, error) {
	skill := &domain.Skill{
		ID:                   uuid.NewString(),
		Name:                 in.Name,
		Description:          in.Description,
		RequiresTraining:     in.RequiresTraining,
		TrainingExpiryMonths: in.TrainingExpiryMonths,
		TrainingDetails:      in.TrainingDetails,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, err
	}

	s.audit.Record(actor, domain.ActionCreate, "skill:"+skill.ID, skill.Name)
	return skill, nil
}

// UpdateSkill applies the input to an existing skill.
func (s *MatrixService) UpdateSkill(ctx context.Context, actor ports.Actor, id string, in ports.SkillInput) (*domain.Skill, error) {
	skill, err := s.skills.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	skill.Name = in.Name
	skill.Description = in.Description
	skill.RequiresTraining = in.RequiresTraining
	skill.TrainingExpiryMonths = in.TrainingExpiryMonths
	skill.TrainingDetails = in.TrainingDetails

	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, err
	}

	s.audit.Record(actor, domain.ActionUpdate, "skill:"+skill.ID, skill.Name)
	return skill, nil
}

// DeleteSkill removes a skill unless it is still assigned to employees.
func (s *MatrixService) DeleteSkill(ctx context.Context, actor ports.Actor, id string) error {
	skill, err := s.skills.FindByID(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.links.CountBySkill(ctx, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if n > 0 {
		return domain.ErrSkillInUse
	}

	if err := s.skills.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor, domain.ActionDelete, "skill:"+id, skill.Name)
	return nil
}

// ListSkills returns a page of the skill catalog.
func (s *MatrixService) ListSkills(ctx context.Context, search string, page, limit int) (*ports.ListSkillsResult, error) {
	page, limit = normalizePage(page, limit)

	items, total, err := s.skills.List(ctx, search, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	return &ports.ListSkillsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// CreateLevel adds an employee level.
func (s *MatrixService) CreateLevel(ctx context.Context, actor ports.Actor, name string, order int) (*domain.Level, error) {
	l := &domain.Level{
		ID:        uuid.NewString(),
		Name:      name,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.levels.Create(ctx, l); err != nil {
		return nil, err
	}

	s.audit.Record(actor, domain.ActionCreate, "level:"+l.ID, l.Name)
	return l, nil
}

// DeleteLevel removes a level unless employees are assigned to it.
func (s *MatrixService) DeleteLevel(ctx context.Context, actor ports.Actor, id string) error {
	n, err := s.employees.CountByLevel(ctx, id)
	if err != nil {
		return fmt.Errorf("delete level: %w", err)
	}
	if n > 0 {
		return domain.ErrLevelInUse
	}

	if err := s.levels.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor, domain.ActionDelete, "level:"+id, "")
	return nil
}

// ListLevels returns all levels in progression order.
func (s *MatrixService) ListLevels(ctx context.Context) ([]*domain.Level, error) {
	return s.levels.List(ctx)
}

// CreateProject adds a project.
func (s *MatrixService) CreateProject(ctx context.Context, actor ports.Actor, name string) (*domain.Project, error) {
	p := &domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(actor, domain.ActionCreate, "project:"+p.ID, p.Name)
	return p, nil
}

// DeleteProject removes a project unless employees are assigned to it.
func (s *MatrixService) DeleteProject(ctx context.Context, actor ports.Actor, id string) error {
	n, err := s.employees.CountByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n > 0 {
		return domain.ErrProjectInUse
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor, domain.ActionDelete, "project:"+id, "")
	return nil
}

// ListProjects returns all projects sorted by name.
func (s *MatrixService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListPageSize
	}
	if limit > maxListPageSize {
		limit = maxListPageSize
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
