package handler

import "time"

// dateLayout is the wire format for calendar dates (start dates,
// training dates). Timestamps use RFC 3339.
const dateLayout = "2006-01-02"

// --- Request / Response types ---

type employeeRequest struct {
	Name      string `json:"name"       validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	ClockID   string `json:"clock_id"`
	JobTitle  string `json:"job_title"  validate:"required"`
	LevelID   string `json:"level_id"   validate:"required"`
	ProjectID string `json:"project_id"`
	StartDate string `json:"start_date" validate:"required"`
}

type employeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ClockID   string    `json:"clock_id,omitempty"`
	JobTitle  string    `json:"job_title"`
	LevelID   string    `json:"level_id"`
	ProjectID string    `json:"project_id,omitempty"`
	StartDate string    `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listEmployeesResponse struct {
	Data       []employeeResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type skillRequest struct {
	Name                 string `json:"name" validate:"required"`
	Description          string `json:"description"`
	RequiresTraining     bool   `json:"requires_training"`
	TrainingExpiryMonths int    `json:"training_expiry_months" validate:"gte=0"`
	TrainingDetails      string `json:"training_details"`
}

type skillResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	RequiresTraining     bool      `json:"requires_training"`
	TrainingExpiryMonths int       `json:"training_expiry_months,omitempty"`
	TrainingDetails      string    `json:"training_details,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type listSkillsResponse struct {
	Data       []skillResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type skillAssignmentRequest struct {
	SkillID          string `json:"skill_id"    validate:"required"`
	Proficiency      int    `json:"proficiency" validate:"required,min=1,max=5"`
	LastTrainingDate string `json:"last_training_date,omitempty"`
}

// updateEmployeeSkillsRequest carries the employee's complete skill
// set; omitted skills are removed.
type updateEmployeeSkillsRequest struct {
	Skills []skillAssignmentRequest `json:"skills" validate:"dive"`
}

type employeeSkillResponse struct {
	SkillID            string `json:"skill_id"`
	Proficiency        int    `json:"proficiency"`
	LastTrainingDate   string `json:"last_training_date,omitempty"`
	TrainingExpiryDate string `json:"training_expiry_date,omitempty"`
	TrainingExpired    bool   `json:"training_expired,omitempty"`
}

type matrixRowResponse struct {
	Employee employeeResponse        `json:"employee"`
	Skills   []employeeSkillResponse `json:"skills"`
}

type matrixResponse struct {
	Rows   []matrixRowResponse `json:"rows"`
	Skills []skillResponse     `json:"skills"`
}

type levelRequest struct {
	Name  string `json:"name"  validate:"required"`
	Order int    `json:"order" validate:"gte=0"`
}

type levelResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type projectRequest struct {
	Name string `json:"name" validate:"required"`
}

type projectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createAdminRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type adminResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type auditEntryResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	EntityRef string    `json:"entity_ref,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type listAuditResponse struct {
	Data       []auditEntryResponse `json:"data"`
	Pagination paginationResponse   `json:"pagination"`
}
