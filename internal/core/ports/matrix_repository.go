package ports

import (
	"context"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// ListEmployeesFilter carries query parameters for employee listings.
// Search matches name, email, job title, clock ID, or project name.
type ListEmployeesFilter struct {
	Search string
	// IDs restricts the result to the given employee ids (used to scope
	// non-admin views to the caller's own row).
	IDs   []string
	Page  int // 1-based; 0 disables pagination
	Limit int
}

// EmployeeRepository defines persistence for employee profiles.
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListEmployeesFilter) ([]*domain.Employee, int64, error)
	CountByLevel(ctx context.Context, levelID string) (int64, error)
	CountByProject(ctx context.Context, projectID string) (int64, error)
}

// SkillRepository defines persistence for the skill catalog.
type SkillRepository interface {
	Create(ctx context.Context, s *domain.Skill) error
	FindByID(ctx context.Context, id string) (*domain.Skill, error)
	Update(ctx context.Context, s *domain.Skill) error
	Delete(ctx context.Context, id string) error
	// List returns skills matching the search (name or description),
	// name-ascending. Page 0 disables pagination.
	List(ctx context.Context, search string, page, limit int) ([]*domain.Skill, int64, error)
}

// EmployeeSkillRepository links employees to skills.
type EmployeeSkillRepository interface {
	// ReplaceForEmployee atomically swaps the employee's skill set.
	ReplaceForEmployee(ctx context.Context, employeeID string, links []*domain.EmployeeSkill) error
	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.EmployeeSkill, error)
	DeleteForEmployee(ctx context.Context, employeeID string) error
	CountBySkill(ctx context.Context, skillID string) (int64, error)
}

// LevelRepository defines persistence for employee levels.
type LevelRepository interface {
	Create(ctx context.Context, l *domain.Level) error
	Delete(ctx context.Context, id string) error
	// List returns levels sorted by their order field.
	List(ctx context.Context) ([]*domain.Level, error)
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	// List returns projects sorted by name.
	List(ctx context.Context) ([]*domain.Project, error)
}
