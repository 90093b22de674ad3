package models

import "gorm.io/gorm"

// CartItem is one (user, product) line of a server-side cart.
type CartItem struct {
	gorm.Model
	UserID    uint     `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  int      `gorm:"not null;default:1"                         json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID"                       json:"product,omitempty"`
}
