package domain

import (
	"strings"
	"time"
)

// Plan is a memorial's subscription tier. The tier controls how long (or
// whether) the page is publicly visible.
type Plan string

const (
	PlanSpirit  Plan = "spirit" // free tier, not publicly visible
	PlanEssence Plan = "essence"
	PlanLegacy  Plan = "legacy"
	PlanEternal Plan = "eternal"
)

// ParsePlan normalizes a plan string to a known tier. Comparisons are
// case-insensitive; unknown values come back as the empty Plan, which the
// access rules treat like the free tier.
func ParsePlan(s string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanSpirit:
		return PlanSpirit
	case PlanEssence:
		return PlanEssence
	case PlanLegacy:
		return PlanLegacy
	case PlanEternal:
		return PlanEternal
	}
	return ""
}

// IsPaid reports whether the plan is a paid (potentially public) tier.
// Stored values are compared case-insensitively; unknown values count as
// the free tier.
func (p Plan) IsPaid() bool {
	switch ParsePlan(string(p)) {
	case PlanEssence, PlanLegacy, PlanEternal:
		return true
	}
	return false
}

// Visibility is the administrative moderation flag, independent of plan.
type Visibility string

const (
	VisibilityNormal Visibility = "normal"
	VisibilityHidden Visibility = "hidden"
)

// ExpiryNever is the sentinel stored in plan_expiry for plans that never
// expire (the top tier).
const ExpiryNever = "ETERNAL"

// Memorial is the content record for a tribute page
type Memorial struct {
	ID          string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	OwnerID     string     `gorm:"column:owner_id;index;size:36" json:"owner_id"`
	OwnerAdmin  bool       `gorm:"column:owner_admin;default:false" json:"owner_admin"`
	Name        string     `gorm:"column:name;size:200" json:"name"`
	Biography   string     `gorm:"column:biography;type:text" json:"biography"`
	BornAt      *time.Time `gorm:"column:born_at" json:"born_at,omitempty"`
	DiedAt      *time.Time `gorm:"column:died_at" json:"died_at,omitempty"`
	CoverPhoto  string     `gorm:"column:cover_photo" json:"cover_photo,omitempty"`
	Visibility  Visibility `gorm:"column:visibility;size:16;default:normal" json:"visibility"`
	Plan        Plan       `gorm:"column:plan;size:16;default:spirit" json:"plan"`
	PlanExpiry  string     `gorm:"column:plan_expiry;size:32" json:"plan_expiry,omitempty"` // ISO date, ETERNAL, or empty
	ViewCount   int64      `gorm:"column:view_count;default:0" json:"view_count"`
	LastVisited *time.Time `gorm:"column:last_visited" json:"last_visited,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Memorial) TableName() string {
	return "memorials"
}

// CreateMemorialRequest is the request body for creating a memorial
type CreateMemorialRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Biography string `json:"biography"`
	BornAt    string `json:"born_at"`
	DiedAt    string `json:"died_at"`
}

// UpdateMemorialRequest is the request body for editing memorial content.
// Plan and visibility are not editable here; those change only through
// payment verification and admin moderation.
type UpdateMemorialRequest struct {
	Name      *string `json:"name,omitempty"`
	Biography *string `json:"biography,omitempty"`
	BornAt    *string `json:"born_at,omitempty"`
	DiedAt    *string `json:"died_at,omitempty"`
}

// MemorialResponse is the full page payload for a viewable memorial
type MemorialResponse struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	Name       string     `json:"name"`
	Biography  string     `json:"biography"`
	BornAt     *time.Time `json:"born_at,omitempty"`
	DiedAt     *time.Time `json:"died_at,omitempty"`
	CoverPhoto string     `json:"cover_photo,omitempty"`
	Plan       Plan       `json:"plan"`
	ViewCount  int64      `json:"view_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToResponse converts a Memorial to its page payload
func (m *Memorial) ToResponse() *MemorialResponse {
	return &MemorialResponse{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Biography:  m.Biography,
		BornAt:     m.BornAt,
		DiedAt:     m.DiedAt,
		CoverPhoto: m.CoverPhoto,
		Plan:       m.Plan,
		ViewCount:  m.ViewCount,
		CreatedAt:  m.CreatedAt,
	}
}

// MemorialSummary is the dashboard row for an owner's memorial
type MemorialSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Plan        Plan       `json:"plan"`
	Visibility  Visibility `json:"visibility"`
	ViewCount   int64      `json:"view_count"`
	LastVisited *time.Time `json:"last_visited,omitempty"`
}

// ToSummary converts a Memorial to its dashboard row
func (m *Memorial) ToSummary() *MemorialSummary {
	return &MemorialSummary{
		ID:          m.ID,
		Name:        m.Name,
		Plan:        m.Plan,
		Visibility:  m.Visibility,
		ViewCount:   m.ViewCount,
		LastVisited: m.LastVisited,
	}
}
