package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name  string `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Image string `gorm:"size:500"                      json:"image"`
}

type SubCategory struct {
	gorm.Model
	Name       string     `gorm:"size:150;not null;index"               json:"name"`
	Image      string     `gorm:"size:500"                              json:"image"`
	Categories []Category `gorm:"many2many:sub_category_categories"     json:"category"`
}
