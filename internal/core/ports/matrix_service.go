package ports

import (
	"context"
	"time"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

// EmployeeInput carries the data needed to create or update an employee.
type EmployeeInput struct {
	Name      string
	Email     string
	ClockID   string
	JobTitle  string
	LevelID   string
	ProjectID string
	StartDate time.Time
}

// SkillInput carries the data needed to create or update a skill.
type SkillInput struct {
	Name                 string
	Description          string
	RequiresTraining     bool
	TrainingExpiryMonths int
	TrainingDetails      string
}

// SkillAssignment is one skill an employee holds, as submitted.
type SkillAssignment struct {
	SkillID          string
	Proficiency      int // 1-5
	LastTrainingDate *time.Time
}

// MatrixRow is one employee plus their current skill links.
type MatrixRow struct {
	Employee *domain.Employee
	Skills   []*domain.EmployeeSkill
}

// MatrixView is the skills matrix as seen by one caller: their visible
// employees crossed with the full skill catalog.
type MatrixView struct {
	Rows   []MatrixRow
	Skills []*domain.Skill
}

// ListEmployeesResult is a page of employees.
type ListEmployeesResult struct {
	Items      []*domain.Employee
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListSkillsResult is a page of skills.
type ListSkillsResult struct {
	Items      []*domain.Skill
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// MatrixService defines the skills-matrix use cases. Every mutation
// takes the acting principal and emits an audit entry on success.
type MatrixService interface {
	// Matrix returns the visible matrix: all employees for admins, the
	// caller's own row otherwise.
	Matrix(ctx context.Context, actor Actor, search string) (*MatrixView, error)

	CreateEmployee(ctx context.Context, actor Actor, in EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, actor Actor, id string, in EmployeeInput) (*domain.Employee, error)
	// DeleteEmployee removes the employee, their skill links, and their
	// login principal. Admin principals cannot be deleted this way.
	DeleteEmployee(ctx context.Context, actor Actor, id string) error
	ListEmployees(ctx context.Context, search string, page, limit int) (*ListEmployeesResult, error)

	// UpdateEmployeeSkills replaces the employee's skill set. Allowed
	// for admins and for the employee themselves.
	UpdateEmployeeSkills(ctx context.Context, actor Actor, employeeID string, assignments []SkillAssignment) error

	CreateSkill(ctx context.Context, actor Actor, in SkillInput) (*domain.Skill, error)
	UpdateSkill(ctx context.Context, actor Actor, id string, in SkillInput) (*domain.Skill, error)
	// DeleteSkill refuses while the skill is assigned to any employee.
	DeleteSkill(ctx context.Context, actor Actor, id string) error
	ListSkills(ctx context.Context, search string, page, limit int) (*ListSkillsResult, error)

	CreateLevel(ctx context.Context, actor Actor, name string, order int) (*domain.Level, error)
	// DeleteLevel refuses while employees are assigned to the level.
	DeleteLevel(ctx context.Context, actor Actor, id string) error
	ListLevels(ctx context.Context) ([]*domain.Level, error)

	CreateProject(ctx context.Context, actor Actor, name string) (*domain.Project, error)
	// DeleteProject refuses while employees are assigned to the project.
	DeleteProject(ctx context.Context, actor Actor, id string) error
	ListProjects(ctx context.Context) ([]*domain.Project, error)
}
