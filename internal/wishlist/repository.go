package wishlist

import (
	"context"
	"errors"
)

var ErrWishlistNotFound = errors.New("wishlist not found")

type Repository interface {
	GetWishlist(ctx context.Context, userID string) (*Wishlist, error)
	AddItem(ctx context.Context, userID string, item Item) error
	RemoveItem(ctx context.Context, userID string, productID int64) error
	DeleteWishlist(ctx context.Context, userID string) error
}
