package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Audit actions
const (
	AuditCorrectionApproved = "correction_approved"
	AuditCorrectionRejected = "correction_rejected"
	AuditCorrectionModified = "correction_modified"
	AuditSubmissionApproved = "submission_approved"
	AuditSubmissionRejected = "submission_rejected"
	AuditGamePublished      = "game_published"
)

// AuditLog is an append-only record of every catalog decision. Rows are
// never updated or deleted; the actor's name and role are denormalized at
// write time so the entry stays readable after account changes.
type AuditLog struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Action        string         `gorm:"column:action;type:varchar(40);index" json:"action"`
	GameID        *uint64        `gorm:"column:game_id;index" json:"game_id,omitempty"`
	GameTitle     string         `gorm:"column:game_title;type:varchar(255)" json:"game_title"`
	Field         string         `gorm:"column:field;type:varchar(50)" json:"field,omitempty"`
	OldValue      datatypes.JSON `gorm:"column:old_value;type:json" json:"old_value,omitempty"`
	NewValue      datatypes.JSON `gorm:"column:new_value;type:json" json:"new_value,omitempty"`
	CorrectionID  *uint64        `gorm:"column:correction_id" json:"correction_id,omitempty"`
	SubmissionID  *uint64        `gorm:"column:submission_id" json:"submission_id,omitempty"`
	ChangedByID   uint64         `gorm:"column:changed_by_id;index" json:"changed_by_id"`
	ChangedByName string         `gorm:"column:changed_by_name;type:varchar(100)" json:"changed_by_name"`
	ChangedByRole string         `gorm:"column:changed_by_role;type:varchar(20)" json:"changed_by_role"`
	SubmittedByID *uint64        `gorm:"column:submitted_by_id;index" json:"submitted_by_id,omitempty"`
	Note          string         `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// AuditLogResponse is the API view of an audit entry
type AuditLogResponse struct {
	ID            uint64          `json:"id"`
	Action        string          `json:"action"`
	GameID        *uint64         `json:"game_id,omitempty"`
	GameTitle     string          `json:"game_title"`
	Field         string          `json:"field,omitempty"`
	OldValue      json.RawMessage `json:"old_value,omitempty"`
	NewValue      json.RawMessage `json:"new_value,omitempty"`
	CorrectionID  *uint64         `json:"correction_id,omitempty"`
	SubmissionID  *uint64         `json:"submission_id,omitempty"`
	ChangedByID   uint64          `json:"changed_by_id"`
	ChangedByName string          `json:"changed_by_name"`
	ChangedByRole string          `json:"changed_by_role"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse converts AuditLog to AuditLogResponse
func (a *AuditLog) ToResponse() *AuditLogResponse {
	return &AuditLogResponse{
		ID:            a.ID,
		Action:        a.Action,
		GameID:        a.GameID,
		GameTitle:     a.GameTitle,
		Field:         a.Field,
		OldValue:      json.RawMessage(a.OldValue),
		NewValue:      json.RawMessage(a.NewValue),
		CorrectionID:  a.CorrectionID,
		SubmissionID:  a.SubmissionID,
		ChangedByID:   a.ChangedByID,
		ChangedByName: a.ChangedByName,
		ChangedByRole: a.ChangedByRole,
		Note:          a.Note,
		CreatedAt:     a.CreatedAt,
	}
}

// AuditLogFilter narrows audit listings
type AuditLogFilter struct {
	GameID      uint64
	UserID      uint64
	Action      string
	SubmittedBy uint64
}
