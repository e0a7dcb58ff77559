package entity

import "time"

// Creation types persisted in the creations table.
const (
	CreationTypeArticle      = "article"
	CreationTypeBlogTitle    = "blog-title"
	CreationTypeImage        = "image"
	CreationTypeResumeReview = "resume-review"
)

// DbCreation is an immutable log entry of one completed generation event.
// Rows are only ever inserted by the generation flow; the community surface
// may toggle likes on published image creations.
type DbCreation struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	UserID    uint        `gorm:"column:user_id;index;not null" json:"user_id"`
	Prompt    string      `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Content   string      `gorm:"column:content;type:text;not null" json:"content"`
	Type      string      `gorm:"column:type;type:varchar(50);index;not null" json:"type"`
	Publish   bool        `gorm:"column:publish;not null;default:false" json:"publish"`
	Likes     StringArray `gorm:"column:likes;type:text" json:"likes"`
}

// TableName overrides default pluralised name.
func (DbCreation) TableName() string {
	return "creations"
}

// CreationQuery supports listing creations with pagination.
type CreationQuery struct {
	BaseParams
	UserID        uint   `json:"-"`
	Type          string `json:"type" form:"type" query:"type"`
	PublishedOnly bool   `json:"-"`
}

// CreationListResponse wraps a page of creations.
type CreationListResponse struct {
	Creations []DbCreation `json:"creations"`
	Meta      *Meta        `json:"meta"`
}
