// Package wishlist stores saved-for-later products per user.
package wishlist

import "time"

type Item struct {
	ProductID int64     `bson:"product_id" json:"product_id"`
	Name      string    `bson:"name" json:"name"`
	Price     float64   `bson:"price" json:"price"`
	ImageURL  string    `bson:"image_url" json:"image_url"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

type Wishlist struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Items     []Item    `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
