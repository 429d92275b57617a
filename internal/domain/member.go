package domain

import "time"

// Member represents a registered account
type Member struct {
	ID          string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Email       string     `gorm:"column:email;uniqueIndex;size:191" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	Name        string     `gorm:"column:name;size:100" json:"name"`
	IsAdmin     bool       `gorm:"column:is_admin;default:false" json:"is_admin"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse is the public view of a member (no password hash)
type MemberResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a Member to its public representation
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}
