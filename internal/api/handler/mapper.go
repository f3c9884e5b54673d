package handler

import (
	"time"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

// Mapping between domain types and the wire schema. Kept separate so
// the JSON contract is not coupled to internal type changes.

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		ClockID:   e.ClockID,
		JobTitle:  e.JobTitle,
		LevelID:   e.LevelID,
		ProjectID: e.ProjectID,
		StartDate: e.StartDate.Format(dateLayout),
		CreatedAt: e.CreatedAt,
	}
}

func toSkillResponse(s *domain.Skill) skillResponse {
	return skillResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		Description:          s.Description,
		RequiresTraining:     s.RequiresTraining,
		TrainingExpiryMonths: s.TrainingExpiryMonths,
		TrainingDetails:      s.TrainingDetails,
		CreatedAt:            s.CreatedAt,
	}
}

func toEmployeeSkillResponse(link *domain.EmployeeSkill, now time.Time) employeeSkillResponse {
	resp := employeeSkillResponse{
		SkillID:     link.SkillID,
		Proficiency: link.Proficiency,
	}
	if link.LastTrainingDate != nil {
		resp.LastTrainingDate = link.LastTrainingDate.Format(dateLayout)
	}
	if link.TrainingExpiryDate != nil {
		resp.TrainingExpiryDate = link.TrainingExpiryDate.Format(dateLayout)
		resp.TrainingExpired = link.TrainingExpiryDate.Before(now)
	}
	return resp
}

func toPaginationResponse(total int64, page, limit, totalPages int) paginationResponse {
	return paginationResponse{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

func toAuditEntryResponse(e *domain.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:        e.ID,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Action:    string(e.Action),
		EntityRef: e.EntityRef,
		Detail:    e.Detail,
		Timestamp: e.Timestamp,
	}
}

func toMatrixResponse(view *ports.MatrixView, now time.Time) matrixResponse {
	resp := matrixResponse{
		Rows:   make([]matrixRowResponse, 0, len(view.Rows)),
		Skills: make([]skillResponse, 0, len(view.Skills)),
	}
	for _, row := range view.Rows {
		r := matrixRowResponse{
			Employee: toEmployeeResponse(row.Employee),
			Skills:   make([]employeeSkillResponse, 0, len(row.Skills)),
		}
		for _, link := range row.Skills {
			r.Skills = append(r.Skills, toEmployeeSkillResponse(link, now))
		}
		resp.Rows = append(resp.Rows, r)
	}
	for _, s := range view.Skills {
		resp.Skills = append(resp.Skills, toSkillResponse(s))
	}
	return resp
}
