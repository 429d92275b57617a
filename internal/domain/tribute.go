package domain

import "time"

// TributeKind separates short condolences from longer stories
type TributeKind string

const (
	TributeKindMessage TributeKind = "message"
	TributeKindStory   TributeKind = "story"
)

// Tribute is a visitor-submitted condolence or story on a memorial page.
// Tributes start pending and appear publicly once the owner approves them.
type Tribute struct {
	ID         int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemorialID string      `gorm:"column:memorial_id;index;size:36" json:"memorial_id"`
	Kind       TributeKind `gorm:"column:kind;size:16;default:message" json:"kind"`
	AuthorName string      `gorm:"column:author_name;size:100" json:"author_name"`
	AuthorID   string      `gorm:"column:author_id;size:36" json:"author_id,omitempty"` // empty for anonymous
	Title      string      `gorm:"column:title;size:200" json:"title,omitempty"`
	Content    string      `gorm:"column:content;type:text" json:"content"`
	Approved   bool        `gorm:"column:approved;default:false" json:"approved"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Tribute) TableName() string {
	return "tributes"
}

// CreateTributeRequest is the request body for leaving a tribute
type CreateTributeRequest struct {
	Kind       TributeKind `json:"kind" binding:"omitempty,oneof=message story"`
	AuthorName string      `json:"author_name" binding:"required,min=1,max=100"`
	Title      string      `json:"title" binding:"max=200"`
	Content    string      `json:"content" binding:"required,min=1"`
}

// Photo is an uploaded image attached to a memorial
type Photo struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemorialID string    `gorm:"column:memorial_id;index;size:36" json:"memorial_id"`
	Key        string    `gorm:"column:object_key;size:255" json:"key"`
	URL        string    `gorm:"column:url;size:512" json:"url"`
	Caption    string    `gorm:"column:caption;size:255" json:"caption,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}
