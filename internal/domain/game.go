package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Game activation types
const (
	ActivationLegacy5x5      = "Legacy(5x5)"
	ActivationLegacyPerTitle = "Legacy(Per-Title)"
	ActivationSSA            = "SSA"
)

// Game support statuses
const (
	GameStatusSupported   = "supported"
	GameStatusTesting     = "testing"
	GameStatusUnsupported = "unsupported"
)

// Playability statuses
const (
	PlayabilityPlayable             = "playable"
	PlayabilityUnplayable           = "unplayable"
	PlayabilityCommunityAlternative = "community_alternative"
	PlayabilityRemasteredAvailable  = "remastered_available"
)

// StringArray is a custom type for a JSON array of strings
type StringArray []string

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, a)
}

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Game is a catalog record. The slug is the stable external key.
// Games are never edited directly: every field change flows through the
// correction or game-submission workflows so it stays attributable.
type Game struct {
	ID                       uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Slug                     string      `gorm:"column:slug;type:varchar(150);uniqueIndex" json:"slug"`
	Title                    string      `gorm:"column:title;type:varchar(255)" json:"title"`
	Description              string      `gorm:"column:description;type:text" json:"description"`
	ReleaseDate              string      `gorm:"column:release_date;type:varchar(10)" json:"release_date"`
	Developer                string      `gorm:"column:developer;type:varchar(255)" json:"developer"`
	Publisher                string      `gorm:"column:publisher;type:varchar(255)" json:"publisher"`
	Genres                   StringArray `gorm:"column:genres;type:json" json:"genres"`
	Platforms                StringArray `gorm:"column:platforms;type:json" json:"platforms"`
	ActivationType           string      `gorm:"column:activation_type;type:varchar(30)" json:"activation_type"`
	Status                   string      `gorm:"column:status;type:varchar(20);default:'testing';index" json:"status"`
	Instructions             StringArray `gorm:"column:instructions;type:json" json:"instructions"`
	KnownIssues              StringArray `gorm:"column:known_issues;type:json" json:"known_issues"`
	CommunityTips            StringArray `gorm:"column:community_tips;type:json" json:"community_tips"`
	StoreURL                 string      `gorm:"column:store_url;type:varchar(500)" json:"store_url,omitempty"`
	SupportURL               string      `gorm:"column:support_url;type:varchar(500)" json:"support_url,omitempty"`
	CommunityURL             string      `gorm:"column:community_url;type:varchar(500)" json:"community_url,omitempty"`
	PlayabilityStatus        string      `gorm:"column:playability_status;type:varchar(30);default:'playable'" json:"playability_status"`
	CommunityAlternativeName string      `gorm:"column:community_alternative_name;type:varchar(255)" json:"community_alternative_name,omitempty"`
	RemasteredName           string      `gorm:"column:remastered_name;type:varchar(255)" json:"remastered_name,omitempty"`
	RemasteredPlatform       string      `gorm:"column:remastered_platform;type:varchar(100)" json:"remastered_platform,omitempty"`
	FeatureEnabled           bool        `gorm:"column:feature_enabled;default:false;index" json:"feature_enabled"`
	CreatedAt                time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Game) TableName() string { return "games" }

// FieldValue returns the current value of a correctable field by name.
// The second return reports whether the name is known.
func (g *Game) FieldValue(field string) (interface{}, bool) {
	switch field {
	case "title":
		return g.Title, true
	case "description":
		return g.Description, true
	case "releaseDate":
		return g.ReleaseDate, true
	case "developer":
		return g.Developer, true
	case "publisher":
		return g.Publisher, true
	case "genres":
		return g.Genres, true
	case "platforms":
		return g.Platforms, true
	case "activationType":
		return g.ActivationType, true
	case "status":
		return g.Status, true
	case "instructions":
		return g.Instructions, true
	case "knownIssues":
		return g.KnownIssues, true
	case "communityTips":
		return g.CommunityTips, true
	case "storeUrl":
		return g.StoreURL, true
	case "supportUrl":
		return g.SupportURL, true
	case "communityUrl":
		return g.CommunityURL, true
	case "playabilityStatus":
		return g.PlayabilityStatus, true
	case "communityAlternativeName":
		return g.CommunityAlternativeName, true
	case "remasteredName":
		return g.RemasteredName, true
	case "remasteredPlatform":
		return g.RemasteredPlatform, true
	}
	return nil, false
}

// GameListItem is the compact catalog listing view
type GameListItem struct {
	ID                uint64      `json:"id"`
	Slug              string      `json:"slug"`
	Title             string      `json:"title"`
	Developer         string      `json:"developer"`
	Publisher         string      `json:"publisher"`
	ReleaseDate       string      `json:"release_date"`
	Genres            StringArray `json:"genres"`
	Platforms         StringArray `json:"platforms"`
	ActivationType    string      `json:"activation_type"`
	Status            string      `json:"status"`
	PlayabilityStatus string      `json:"playability_status"`
}

// ToListItem converts Game to GameListItem
func (g *Game) ToListItem() GameListItem {
	return GameListItem{
		ID:                g.ID,
		Slug:              g.Slug,
		Title:             g.Title,
		Developer:         g.Developer,
		Publisher:         g.Publisher,
		ReleaseDate:       g.ReleaseDate,
		Genres:            g.Genres,
		Platforms:         g.Platforms,
		ActivationType:    g.ActivationType,
		Status:            g.Status,
		PlayabilityStatus: g.PlayabilityStatus,
	}
}
