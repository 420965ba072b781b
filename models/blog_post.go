package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost is a row of the blog_posts table managed by the console
type BlogPost struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Image     string    `json:"image" db:"image" gorm:"type:text;not null"`
	Title     string    `json:"title" db:"title" gorm:"type:text;not null"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	UserID    string    `json:"user_id" db:"user_id" gorm:"type:text;not null;index:idx_blog_posts_user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime;index:idx_blog_posts_created_at"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// BeforeCreate assigns the identifier when the caller left it empty
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
