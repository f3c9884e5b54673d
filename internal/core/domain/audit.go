package domain

import "time"

// ActionKind classifies a security-relevant action in the audit trail.
type ActionKind string

const (
	ActionLogin        ActionKind = "login"
	ActionLogout       ActionKind = "logout"
	ActionCreate       ActionKind = "create"
	ActionUpdate       ActionKind = "update"
	ActionDelete       ActionKind = "delete"
	ActionAccessDenied ActionKind = "access_denied"
)

// AuditEntry is an immutable, append-only record of a security-relevant
// action. The actor name is snapshotted so the entry stays meaningful
// after the principal is deleted.
type AuditEntry struct {
	ID        string     `json:"id"`
	ActorID   string     `json:"actor_id"`
	ActorName string     `json:"actor_name"`
	Action    ActionKind `json:"action"`
	EntityRef string     `json:"entity_ref"`
	Detail    string     `json:"detail,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
