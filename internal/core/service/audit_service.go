package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

// auditSink accepts entries for asynchronous persistence. Enqueue must
// not block the caller.
type auditSink interface {
	Enqueue(entry *domain.AuditEntry)
}

// AuditService records security-relevant actions. Writes are handed to
// an async sink and can never fail the triggering operation; the sink
// surfaces write failures through logging and metrics.
type AuditService struct {
	sink   auditSink
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(sink auditSink, repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{sink: sink, repo: repo, logger: logger}
}

// Record appends one audit entry for the actor. Fire-and-forget.
func (s *AuditService) Record(actor ports.Actor, action domain.ActionKind, entityRef, detail string) {
	s.sink.Enqueue(&domain.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		EntityRef: entityRef,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

// Query returns one page of the trail, newest first.
func (s *AuditService) Query(ctx context.Context, filter ports.AuditFilter) (*ports.AuditPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultAuditPageSize
	}
	if filter.Limit > maxAuditPageSize {
		filter.Limit = maxAuditPageSize
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.AuditPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}
