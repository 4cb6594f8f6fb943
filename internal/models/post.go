package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	gorm.Model
	Title             string     `gorm:"not null" json:"title" form:"title"`
	Slug              string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content           string     `gorm:"type:text;not null" json:"content" form:"content"`
	Tags              string     `json:"tags" form:"tags"`
	MetaDescription   string     `json:"meta_description" form:"meta_description"`
	ImageFilename     string     `json:"image_filename"`
	ThumbnailFilename string     `json:"thumbnail_filename"`
	IsPublished       bool       `gorm:"default:false" json:"is_published" form:"is_published"`
	PublishedAt       *time.Time `json:"published_at"`
	CategoryID        *uint      `json:"category_id"`
	Category          *Category  `json:"category,omitempty"`
	UserID            uint       `json:"user_id"`
	Views             uint       `gorm:"default:0" json:"views"`
}
