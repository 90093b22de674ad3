package models

import "gorm.io/gorm"

// Address is a delivery address. Status false means disabled.
type Address struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"    json:"userId"`
	AddressLine string `gorm:"size:255;not null" json:"address_line"`
	City        string `gorm:"size:100"          json:"city"`
	State       string `gorm:"size:100"          json:"state"`
	Country     string `gorm:"size:100"          json:"country"`
	Pincode     string `gorm:"size:10"           json:"pincode"`
	Mobile      string `gorm:"size:15"           json:"mobile"`
	Status      bool   `gorm:"not null;default:true" json:"status"`
}
