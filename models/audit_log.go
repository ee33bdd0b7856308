package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionEnrolled       AuditAction = "enrolled"
	AuditActionDeregistered   AuditAction = "deregistered"
	AuditActionRemovedByAdmin AuditAction = "removed_by_admin"
)

// AuditEntityEnrollment is the only entity type written to the audit trail today
const AuditEntityEnrollment = "enrollment"

// AuditLog represents an append-only audit trail entry
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	Action     AuditAction     `json:"action" db:"action"`
	ActorID    uuid.UUID       `json:"actor_id" db:"actor_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"` // JSONB
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(entityType string, entityID uuid.UUID, action AuditAction, actorID uuid.UUID) *AuditLog {
	return &AuditLog{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
	}
}

// WithDetails sets the details payload
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// AuditFilter narrows audit log listings
type AuditFilter struct {
	EntityID *uuid.UUID
	ActorID  *uuid.UUID
	Action   AuditAction
}
