package models

import "gorm.io/gorm"

// Comment 匿名访客评论，支持通过 ParentID 进行楼中楼回复。
type Comment struct {
	gorm.Model
	Nickname  string `gorm:"type:varchar(100);not null" json:"nickname" form:"nickname"`
	Content   string `gorm:"type:text;not null" json:"content" form:"content"`
	PostID    uint   `gorm:"not null;index" json:"post_id"`
	ParentID  *uint  `json:"parent_id"`
	IPAddress string `gorm:"type:varchar(45)" json:"ip_address"`
}
