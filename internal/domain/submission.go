package domain

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Game submission statuses. Approval and publication are separate steps:
// an approved submission holds its data until an admin publishes it into
// the public catalog.
const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusRejected  = "rejected"
	SubmissionStatusPublished = "published"
)

// GameSubmission is a proposed field bundle for a catalog entry, either a
// brand-new game or an existing one identified by TargetSlug. ProposedData
// carries the full draft record as JSON so the draft schema can grow
// without migrations.
type GameSubmission struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title         string         `gorm:"column:title;type:varchar(255)" json:"title"`
	TargetSlug    string         `gorm:"column:target_slug;type:varchar(150);index" json:"target_slug,omitempty"`
	ProposedData  datatypes.JSON `gorm:"column:proposed_data;type:json" json:"proposed_data"`
	Status        string         `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`
	SubmittedByID uint64         `gorm:"column:submitted_by_id;index" json:"submitted_by_id"`
	ReviewedByID  *uint64        `gorm:"column:reviewed_by_id" json:"reviewed_by_id,omitempty"`
	ReviewNote    string         `gorm:"column:review_note;type:text" json:"review_note,omitempty"`
	ReviewedAt    *time.Time     `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	PublishedByID *uint64        `gorm:"column:published_by_id" json:"published_by_id,omitempty"`
	PublishedAt   *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	GameID        *uint64        `gorm:"column:game_id" json:"game_id,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	SubmittedBy *User `gorm:"foreignKey:SubmittedByID" json:"submitted_by,omitempty"`
	ReviewedBy  *User `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	PublishedBy *User `gorm:"foreignKey:PublishedByID" json:"published_by,omitempty"`
}

func (GameSubmission) TableName() string { return "game_submissions" }

// GameDraft is the shape of a submission's proposed data
type GameDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	ReleaseDate    string   `json:"releaseDate,omitempty"`
	Developer      string   `json:"developer,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Platforms      []string `json:"platforms,omitempty"`
	ActivationType string   `json:"activationType,omitempty"`
	StoreURL       string   `json:"storeUrl,omitempty"`
	SupportURL     string   `json:"supportUrl,omitempty"`
	Instructions   []string `json:"instructions,omitempty"`
}

// MissingRequiredFields returns which publish-required fields the draft
// still lacks. Publication needs title, releaseDate, developer and
// publisher, even though submission only needs a title.
func (d *GameDraft) MissingRequiredFields() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.ReleaseDate) == "" {
		missing = append(missing, "releaseDate")
	}
	if strings.TrimSpace(d.Developer) == "" {
		missing = append(missing, "developer")
	}
	if strings.TrimSpace(d.Publisher) == "" {
		missing = append(missing, "publisher")
	}
	return missing
}

// DraftField is one populated draft value, named like the correction
// field schema so the same column mapping applies.
type DraftField struct {
	Name  string
	Value interface{}
}

// Fields returns the draft's populated values in resolution order. Empty
// values are skipped: a draft proposes what it carries, it never clears.
func (d *GameDraft) Fields() []DraftField {
	var fields []DraftField
	addText := func(name, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fields = append(fields, DraftField{Name: name, Value: value})
		}
	}
	addList := func(name string, value []string) {
		if len(value) > 0 {
			fields = append(fields, DraftField{Name: name, Value: StringArray(value)})
		}
	}
	addText("title", d.Title)
	addText("description", d.Description)
	addText("releaseDate", d.ReleaseDate)
	addText("developer", d.Developer)
	addText("publisher", d.Publisher)
	addList("genres", d.Genres)
	addList("platforms", d.Platforms)
	addText("activationType", d.ActivationType)
	addText("storeUrl", d.StoreURL)
	addText("supportUrl", d.SupportURL)
	addList("instructions", d.Instructions)
	return fields
}

// ApplyTo sets the draft's populated values onto a game record. Fields the
// draft leaves empty keep the game's current values.
func (d *GameDraft) ApplyTo(g *Game) {
	for _, f := range d.Fields() {
		switch f.Name {
		case "title":
			g.Title = f.Value.(string)
		case "description":
			g.Description = f.Value.(string)
		case "releaseDate":
			g.ReleaseDate = f.Value.(string)
		case "developer":
			g.Developer = f.Value.(string)
		case "publisher":
			g.Publisher = f.Value.(string)
		case "genres":
			g.Genres = f.Value.(StringArray)
		case "platforms":
			g.Platforms = f.Value.(StringArray)
		case "activationType":
			g.ActivationType = f.Value.(string)
		case "storeUrl":
			g.StoreURL = f.Value.(string)
		case "supportUrl":
			g.SupportURL = f.Value.(string)
		case "instructions":
			g.Instructions = f.Value.(StringArray)
		}
	}
}

// Draft decodes the stored proposed data
func (s *GameSubmission) Draft() (*GameDraft, error) {
	var d GameDraft
	if err := json.Unmarshal(s.ProposedData, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SubmitGameRequest proposes a catalog entry. TargetSlug points the bundle
// at an existing (not yet live) game; empty means a brand-new entry.
type SubmitGameRequest struct {
	Title          string   `json:"title" binding:"required,min=1,max=255"`
	TargetSlug     string   `json:"target_slug" binding:"omitempty,max=150"`
	Description    string   `json:"description" binding:"max=5000"`
	ReleaseDate    string   `json:"release_date" binding:"max=10"`
	Developer      string   `json:"developer" binding:"max=255"`
	Publisher      string   `json:"publisher" binding:"max=255"`
	Genres         []string `json:"genres"`
	Platforms      []string `json:"platforms"`
	ActivationType string   `json:"activation_type" binding:"omitempty,oneof=Legacy(5x5) Legacy(Per-Title) SSA"`
	StoreURL       string   `json:"store_url" binding:"omitempty,url,max=500"`
	SupportURL     string   `json:"support_url" binding:"omitempty,url,max=500"`
	Instructions   []string `json:"instructions"`
}

// ReviewSubmissionRequest resolves a pending submission
type ReviewSubmissionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Note     string `json:"note" binding:"max=1000"`
}

// SubmissionResponse is the API view of a game submission
type SubmissionResponse struct {
	ID            uint64          `json:"id"`
	Title         string          `json:"title"`
	TargetSlug    string          `json:"target_slug,omitempty"`
	ProposedData  json.RawMessage `json:"proposed_data"`
	Status        string          `json:"status"`
	SubmittedByID uint64          `json:"submitted_by_id"`
	SubmittedBy   string          `json:"submitted_by,omitempty"`
	ReviewedByID  *uint64         `json:"reviewed_by_id,omitempty"`
	ReviewedBy    string          `json:"reviewed_by,omitempty"`
	ReviewNote    string          `json:"review_note,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	PublishedBy   string          `json:"published_by,omitempty"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
	GameID        *uint64         `json:"game_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse converts GameSubmission to SubmissionResponse
func (s *GameSubmission) ToResponse() *SubmissionResponse {
	resp := &SubmissionResponse{
		ID:            s.ID,
		Title:         s.Title,
		TargetSlug:    s.TargetSlug,
		ProposedData:  json.RawMessage(s.ProposedData),
		Status:        s.Status,
		SubmittedByID: s.SubmittedByID,
		ReviewedByID:  s.ReviewedByID,
		ReviewNote:    s.ReviewNote,
		ReviewedAt:    s.ReviewedAt,
		PublishedAt:   s.PublishedAt,
		GameID:        s.GameID,
		CreatedAt:     s.CreatedAt,
	}
	if s.SubmittedBy != nil {
		resp.SubmittedBy = s.SubmittedBy.AuditName()
	}
	if s.ReviewedBy != nil {
		resp.ReviewedBy = s.ReviewedBy.AuditName()
	}
	if s.PublishedBy != nil {
		resp.PublishedBy = s.PublishedBy.AuditName()
	}
	return resp
}
