package models

import "gorm.io/gorm"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is a storefront account. ShoppingCart is the user's cart reference
// list; clearing the user's CartItem rows empties it.
type User struct {
	gorm.Model
	Name         string     `gorm:"size:255;not null"             json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string     `gorm:"size:255;not null"             json:"-"`
	Role         string     `gorm:"size:20;default:USER"          json:"role"`
	Mobile       string     `gorm:"size:20"                       json:"mobile"`
	ShoppingCart []CartItem `gorm:"foreignKey:UserID"             json:"shopping_cart,omitempty"`
}
