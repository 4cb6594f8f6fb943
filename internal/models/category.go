package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" form:"name"`
}
