package domain

import "time"

// Moderation action types
const (
	ModerationRoleChange   = "role_change"
	ModerationStatusChange = "status_change"
	ModerationDelete       = "delete"
	ModerationRestore      = "restore"
)

// ModerationAction records one admin action against a user account.
// The history is append-only and listed newest first.
type ModerationAction struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TargetUserID uint64    `gorm:"column:target_user_id;index" json:"target_user_id"`
	ActorID      uint64    `gorm:"column:actor_id;index" json:"actor_id"`
	ActorName    string    `gorm:"column:actor_name;type:varchar(100)" json:"actor_name"`
	Action       string    `gorm:"column:action;type:varchar(30)" json:"action"`
	OldValue     string    `gorm:"column:old_value;type:varchar(50)" json:"old_value,omitempty"`
	NewValue     string    `gorm:"column:new_value;type:varchar(50)" json:"new_value,omitempty"`
	Reason       string    `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (ModerationAction) TableName() string { return "moderation_actions" }

// UpdateRoleRequest changes a user's role
type UpdateRoleRequest struct {
	Role   string `json:"role" binding:"required,oneof=user reviewer admin"`
	Reason string `json:"reason" binding:"required,min=5,max=1000"`
}

// UpdateStatusRequest changes a user's account status.
// SuspendedUntil only applies when status is "suspended"; nil means
// indefinite.
type UpdateStatusRequest struct {
	Status         string     `json:"status" binding:"required,oneof=active suspended restricted blocked"`
	SuspendedUntil *time.Time `json:"suspended_until,omitempty"`
	Reason         string     `json:"reason" binding:"required,min=5,max=1000"`
}

// DeleteUserRequest soft-deletes the caller's own account. The reason is
// optional, it only annotates the moderation history entry.
type DeleteUserRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=1000"`
}

// RestoreUserRequest restores a soft-deleted account. AdminOverride is
// required once the restore grace period has passed and is honored only
// for configured developer accounts.
type RestoreUserRequest struct {
	Reason        string `json:"reason" binding:"required,min=5,max=1000"`
	AdminOverride bool   `json:"admin_override,omitempty"`
}

// ModerationActionResponse is the API view of a moderation entry
type ModerationActionResponse struct {
	ID           uint64    `json:"id"`
	TargetUserID uint64    `json:"target_user_id"`
	ActorID      uint64    `json:"actor_id"`
	ActorName    string    `json:"actor_name"`
	Action       string    `json:"action"`
	OldValue     string    `json:"old_value,omitempty"`
	NewValue     string    `json:"new_value,omitempty"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts ModerationAction to ModerationActionResponse
func (m *ModerationAction) ToResponse() *ModerationActionResponse {
	return &ModerationActionResponse{
		ID:           m.ID,
		TargetUserID: m.TargetUserID,
		ActorID:      m.ActorID,
		ActorName:    m.ActorName,
		Action:       m.Action,
		OldValue:     m.OldValue,
		NewValue:     m.NewValue,
		Reason:       m.Reason,
		CreatedAt:    m.CreatedAt,
	}
}
