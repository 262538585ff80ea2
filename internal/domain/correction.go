package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Correction statuses
const (
	CorrectionStatusPending  = "pending"
	CorrectionStatusApproved = "approved"
	CorrectionStatusRejected = "rejected"
	CorrectionStatusModified = "modified"
)

// Review decisions
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
	DecisionModify  = "modify"
)

// Correction is a proposed change to a single game field. OldValue is
// snapshotted at submit time so reviewers always see the value the
// submitter was looking at, even if the game has changed since.
type Correction struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	GameID        uint64         `gorm:"column:game_id;index" json:"game_id"`
	Field         string         `gorm:"column:field;type:varchar(50)" json:"field"`
	OldValue      datatypes.JSON `gorm:"column:old_value;type:json" json:"old_value"`
	NewValue      datatypes.JSON `gorm:"column:new_value;type:json" json:"new_value"`
	Reason        string         `gorm:"column:reason;type:text" json:"reason"`
	Status        string         `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`
	SubmittedByID uint64         `gorm:"column:submitted_by_id;index" json:"submitted_by_id"`
	ReviewedByID  *uint64        `gorm:"column:reviewed_by_id" json:"reviewed_by_id,omitempty"`
	ReviewNote    string         `gorm:"column:review_note;type:text" json:"review_note,omitempty"`
	AppliedValue  datatypes.JSON `gorm:"column:applied_value;type:json" json:"applied_value,omitempty"`
	ReviewedAt    *time.Time     `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Game        *Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
	SubmittedBy *User `gorm:"foreignKey:SubmittedByID" json:"submitted_by,omitempty"`
	ReviewedBy  *User `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
}

func (Correction) TableName() string { return "corrections" }

// IsPending reports whether the correction still awaits review
func (c *Correction) IsPending() bool {
	return c.Status == CorrectionStatusPending
}

// SubmitCorrectionRequest opens a correction against a game field
type SubmitCorrectionRequest struct {
	Field    string          `json:"field" binding:"required"`
	NewValue json.RawMessage `json:"new_value" binding:"required"`
	Reason   string          `json:"reason" binding:"required,min=10,max=1000"`
}

// ReviewCorrectionRequest resolves a pending correction.
// ModifiedValue is required when decision is "modify".
type ReviewCorrectionRequest struct {
	Decision      string          `json:"decision" binding:"required,oneof=approve reject modify"`
	Note          string          `json:"note" binding:"max=1000"`
	ModifiedValue json.RawMessage `json:"modified_value,omitempty"`
}

// CorrectionResponse is the API view of a correction
type CorrectionResponse struct {
	ID            uint64          `json:"id"`
	GameID        uint64          `json:"game_id"`
	GameSlug      string          `json:"game_slug,omitempty"`
	GameTitle     string          `json:"game_title,omitempty"`
	Field         string          `json:"field"`
	OldValue      json.RawMessage `json:"old_value"`
	NewValue      json.RawMessage `json:"new_value"`
	AppliedValue  json.RawMessage `json:"applied_value,omitempty"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	SubmittedByID uint64          `json:"submitted_by_id"`
	SubmittedBy   string          `json:"submitted_by,omitempty"`
	ReviewedByID  *uint64         `json:"reviewed_by_id,omitempty"`
	ReviewedBy    string          `json:"reviewed_by,omitempty"`
	ReviewNote    string          `json:"review_note,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse converts Correction to CorrectionResponse
func (c *Correction) ToResponse() *CorrectionResponse {
	resp := &CorrectionResponse{
		ID:            c.ID,
		GameID:        c.GameID,
		Field:         c.Field,
		OldValue:      json.RawMessage(c.OldValue),
		NewValue:      json.RawMessage(c.NewValue),
		AppliedValue:  json.RawMessage(c.AppliedValue),
		Reason:        c.Reason,
		Status:        c.Status,
		SubmittedByID: c.SubmittedByID,
		ReviewedByID:  c.ReviewedByID,
		ReviewNote:    c.ReviewNote,
		ReviewedAt:    c.ReviewedAt,
		CreatedAt:     c.CreatedAt,
	}
	if c.Game != nil {
		resp.GameSlug = c.Game.Slug
		resp.GameTitle = c.Game.Title
	}
	if c.SubmittedBy != nil {
		resp.SubmittedBy = c.SubmittedBy.AuditName()
	}
	if c.ReviewedBy != nil {
		resp.ReviewedBy = c.ReviewedBy.AuditName()
	}
	return resp
}
