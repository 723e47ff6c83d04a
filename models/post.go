package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	MediaURL      string    `json:"media_url"`
	VideoURL      string    `json:"video_url"`
	MediaType     string    `json:"media_type" gorm:"size:10"`
	AuthorID      uint      `json:"author_id" gorm:"not null"`
	Author        User      `json:"author,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Comments      []Comment `json:"comments,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	VideoEmbedURL string    `json:"video_embed_url,omitempty" gorm:"-"`
}

type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"not null;index"`
	Post       *Post     `json:"post,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID   uint      `json:"author_id" gorm:"not null"`
	Author     User      `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// VisiblePosts is the single source of the post visibility rule: staff see
// every post, everyone else only published ones.
func VisiblePosts(staff bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if staff {
			return db
		}
		return db.Where("is_published = ?", true)
	}
}

// VisibleComments mirrors VisiblePosts for the comment approval flag.
func VisibleComments(staff bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if staff {
			return db
		}
		return db.Where("is_approved = ?", true)
	}
}
