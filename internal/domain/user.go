package domain

import (
	"fmt"
	"time"
)

// User roles
const (
	RoleUser     = "user"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// User account statuses
const (
	StatusActive     = "active"
	StatusSuspended  = "suspended"
	StatusRestricted = "restricted"
	StatusBlocked    = "blocked"
	StatusDeleted    = "deleted"
)

// RestoreGracePeriod is how long after soft deletion any admin may restore
// an account without a developer override.
const RestoreGracePeriod = 30 * 24 * time.Hour

// User represents a community member. Rows are never hard-deleted:
// "delete" is a status transition that anonymizes the display name but
// keeps statistics and authorship links intact for the audit trail.
type User struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name              string     `gorm:"column:name;type:varchar(100)" json:"name"`
	Email             string     `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Role              string     `gorm:"column:role;type:varchar(20);default:'user'" json:"role"`
	Status            string     `gorm:"column:status;type:varchar(20);default:'active';index" json:"status"`
	Provider          string     `gorm:"column:provider;type:varchar(50);uniqueIndex:idx_provider_identity" json:"provider"`
	ProviderAccountID string     `gorm:"column:provider_account_id;type:varchar(255);uniqueIndex:idx_provider_identity" json:"-"`
	SubmissionsCount  int        `gorm:"column:submissions_count;default:0" json:"submissions_count"`
	ApprovedCount     int        `gorm:"column:approved_count;default:0" json:"approved_count"`
	RejectedCount     int        `gorm:"column:rejected_count;default:0" json:"rejected_count"`
	SuspendedUntil    *time.Time `gorm:"column:suspended_until" json:"suspended_until,omitempty"`
	DeletedAt         *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	AnonymizedAt      *time.Time `gorm:"column:anonymized_at" json:"-"`
	ArchivedName      string     `gorm:"column:archived_name;type:varchar(100)" json:"-"`
	ShowStatistics    bool       `gorm:"column:show_statistics;default:true" json:"show_statistics"`
	Notifications     bool       `gorm:"column:notifications;default:true" json:"notifications"`
	Theme             string     `gorm:"column:theme;type:varchar(20);default:'system'" json:"theme"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// AuditName returns the name to show on audit rows: the live name for
// active accounts, the archived name after soft deletion.
func (u *User) AuditName() string {
	if u.Status == StatusDeleted && u.ArchivedName != "" {
		return u.ArchivedName
	}
	return u.Name
}

// IsSuspensionActive reports whether a suspension is still in effect.
// A nil suspended_until means indefinite.
func (u *User) IsSuspensionActive(now time.Time) bool {
	if u.Status != StatusSuspended {
		return false
	}
	if u.SuspendedUntil == nil {
		return true
	}
	return now.Before(*u.SuspendedUntil)
}

// CanSubmit reports whether the account may open corrections or submissions
func (u *User) CanSubmit(now time.Time) bool {
	switch u.Status {
	case StatusRestricted, StatusBlocked, StatusDeleted:
		return false
	case StatusSuspended:
		return !u.IsSuspensionActive(now)
	default:
		return true
	}
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleReviewer || role == RoleAdmin
}

// ValidStatus reports whether status is one of the known account statuses
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusSuspended, StatusRestricted, StatusBlocked, StatusDeleted:
		return true
	}
	return false
}

// AnonymizedName builds the placeholder display name for deleted accounts
func AnonymizedName(id uint64) string {
	return fmt.Sprintf("deleted-user-%d", id)
}

// UserResponse is the authenticated user's own view
type UserResponse struct {
	ID               uint64     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	Status           string     `json:"status"`
	Provider         string     `json:"provider"`
	SubmissionsCount int        `json:"submissions_count"`
	ApprovedCount    int        `json:"approved_count"`
	RejectedCount    int        `json:"rejected_count"`
	SuspendedUntil   *time.Time `json:"suspended_until,omitempty"`
	ShowStatistics   bool       `json:"show_statistics"`
	Notifications    bool       `json:"notifications"`
	Theme            string     `json:"theme"`
	CreatedAt        string     `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Status:           u.Status,
		Provider:         u.Provider,
		SubmissionsCount: u.SubmissionsCount,
		ApprovedCount:    u.ApprovedCount,
		RejectedCount:    u.RejectedCount,
		SuspendedUntil:   u.SuspendedUntil,
		ShowStatistics:   u.ShowStatistics,
		Notifications:    u.Notifications,
		Theme:            u.Theme,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
	}
}

// UserProfileResponse is the public profile view
type UserProfileResponse struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	SubmissionsCount int    `json:"submissions_count,omitempty"`
	ApprovedCount    int    `json:"approved_count,omitempty"`
	RejectedCount    int    `json:"rejected_count,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// ToProfileResponse converts User to the public profile view.
// Statistics are omitted when the user disabled show_statistics.
func (u *User) ToProfileResponse() *UserProfileResponse {
	resp := &UserProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format("2006-01-02"),
	}
	if u.ShowStatistics {
		resp.SubmissionsCount = u.SubmissionsCount
		resp.ApprovedCount = u.ApprovedCount
		resp.RejectedCount = u.RejectedCount
	}
	return resp
}

// UpdateSettingsRequest updates the caller's own preferences
type UpdateSettingsRequest struct {
	ShowStatistics *bool   `json:"show_statistics,omitempty"`
	Notifications  *bool   `json:"notifications,omitempty"`
	Theme          *string `json:"theme,omitempty"`
}
