package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
)

type CartRepository interface {
	// GetCart returns the owner's cart, creating an empty one if absent.
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// AddItem inserts the item or, if the owner already has the product,
	// increments its quantity keeping the stored price.
	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	// SetItemQuantity reports false when the owner has no such item.
	SetItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (bool, error)
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)
	// ClearCart removes all items, creating the cart if absent.
	ClearCart(ctx context.Context, ownerID string) error
}
