package models

import "gorm.io/gorm"

// PageView 访问记录，由中间件在公开页面渲染成功后写入。
type PageView struct {
	gorm.Model
	Path   string `gorm:"type:varchar(255);index" json:"path"`
	PostID *uint  `gorm:"index" json:"post_id"`
}
