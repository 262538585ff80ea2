package domain

import "time"

// Reviewer application statuses
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ReviewerApplication is a user's request to become a reviewer. Approval
// promotes the applicant and is recorded in the moderation history like
// any other role change.
type ReviewerApplication struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64     `gorm:"column:user_id;index" json:"user_id"`
	Motivation   string     `gorm:"column:motivation;type:text" json:"motivation"`
	Status       string     `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`
	ReviewedByID *uint64    `gorm:"column:reviewed_by_id" json:"reviewed_by_id,omitempty"`
	ReviewNote   string     `gorm:"column:review_note;type:text" json:"review_note,omitempty"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User       *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
}

func (ReviewerApplication) TableName() string { return "reviewer_applications" }

// ApplyReviewerRequest opens a reviewer application
type ApplyReviewerRequest struct {
	Motivation string `json:"motivation" binding:"required,min=20,max=2000"`
}

// ReviewApplicationRequest resolves a pending reviewer application
type ReviewApplicationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Note     string `json:"note" binding:"max=1000"`
}

// ReviewerApplicationResponse is the API view of an application
type ReviewerApplicationResponse struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	UserName   string     `json:"user_name,omitempty"`
	Motivation string     `json:"motivation"`
	Status     string     `json:"status"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewNote string     `json:"review_note,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToResponse converts ReviewerApplication to ReviewerApplicationResponse
func (r *ReviewerApplication) ToResponse() *ReviewerApplicationResponse {
	resp := &ReviewerApplicationResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Motivation: r.Motivation,
		Status:     r.Status,
		ReviewNote: r.ReviewNote,
		ReviewedAt: r.ReviewedAt,
		CreatedAt:  r.CreatedAt,
	}
	if r.User != nil {
		resp.UserName = r.User.AuditName()
	}
	if r.ReviewedBy != nil {
		resp.ReviewedBy = r.ReviewedBy.AuditName()
	}
	return resp
}
