package domain

import "time"

// BannedProvider blocks sign-ins from an identity provider. First-time
// sign-ins through a banned provider are refused before an account row is
// created.
type BannedProvider struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Provider  string    `gorm:"column:provider;type:varchar(50);uniqueIndex" json:"provider"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason"`
	BannedBy  uint64    `gorm:"column:banned_by" json:"banned_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BannedProvider) TableName() string { return "banned_providers" }

// BanProviderRequest bans an identity provider
type BanProviderRequest struct {
	Provider string `json:"provider" binding:"required,min=2,max=50"`
	Reason   string `json:"reason" binding:"required,min=5,max=1000"`
}
