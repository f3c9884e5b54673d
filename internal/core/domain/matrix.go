package domain

import (
	"errors"
	"time"
)

var ErrEmployeeNotFound = errors.New("employee not found")
var ErrSkillNotFound = errors.New("skill not found")
var ErrLevelNotFound = errors.New("level not found")
var ErrProjectNotFound = errors.New("project not found")
var ErrSkillInUse = errors.New("skill is assigned to employees")
var ErrLevelInUse = errors.New("level has employees assigned")
var ErrProjectInUse = errors.New("project has employees assigned")
var ErrInvalidProficiency = errors.New("proficiency must be between 1 and 5")

// Level is an employee grade used for career progression ordering.
type Level struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// Project groups employees into a current assignment.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee holds the professional profile attached to a principal.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ClockID   string    `json:"clock_id,omitempty"`
	JobTitle  string    `json:"job_title"`
	LevelID   string    `json:"level_id"`
	ProjectID string    `json:"project_id,omitempty"`
	StartDate time.Time `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Skill is a competency that can be assigned to employees, optionally
// with a training requirement that expires after a number of months.
type Skill struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	RequiresTraining     bool      `json:"requires_training"`
	TrainingExpiryMonths int       `json:"training_expiry_months,omitempty"`
	TrainingDetails      string    `json:"training_details,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// EmployeeSkill links an employee to a skill with a proficiency level
// (1-5) and training dates.
type EmployeeSkill struct {
	EmployeeID         string     `json:"employee_id"`
	SkillID            string     `json:"skill_id"`
	Proficiency        int        `json:"proficiency"`
	LastTrainingDate   *time.Time `json:"last_training_date,omitempty"`
	TrainingExpiryDate *time.Time `json:"training_expiry_date,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TrainingExpiry computes the date a training completed on trained lapses,
// months calendar months later. The day of month is preserved; overflowing
// days roll into the following month.
func TrainingExpiry(trained time.Time, months int) time.Time {
	year := trained.Year() + (int(trained.Month())+months-1)/12
	month := time.Month((int(trained.Month())+months-1)%12 + 1)
	return time.Date(year, month, trained.Day(), 0, 0, 0, 0, time.UTC)
}

// TrainingExpired reports whether the link's training has lapsed at the
// given instant. Links without an expiry date never expire.
func (es *EmployeeSkill) TrainingExpired(now time.Time) bool {
	return es.TrainingExpiryDate != nil && now.After(*es.TrainingExpiryDate)
}
