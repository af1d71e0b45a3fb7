// Package memory keeps carts and products in process memory. Each owner's
// cart has its own lock, held across every read-modify-write.
package memory

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/port"
	"golang.org/x/text/currency"
	"sync"
	"time"
)

type ownerCart struct {
	mu        sync.Mutex
	items     map[uuid.UUID]domain.CartItem
	createdAt time.Time
	updatedAt time.Time
}

type cartRepository struct {
	mu    sync.Mutex
	carts map[string]*ownerCart

	products port.ProductRepository
	currency currency.Unit
	now      func() time.Time
}

// NewCart returns a cart store that resolves display data from products.
func NewCart(products port.ProductRepository, cur currency.Unit) port.CartRepository {
	return &cartRepository{
		carts:    make(map[string]*ownerCart),
		products: products,
		currency: cur,
		now:      time.Now,
	}
}

// cart returns the owner's entry, registering an empty one on first use.
func (r *cartRepository) cart(ownerID string) *ownerCart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[ownerID]
	if !ok {
		now := r.now()
		c = &ownerCart{
			items:     make(map[uuid.UUID]domain.CartItem),
			createdAt: now,
			updatedAt: now,
		}
		r.carts[ownerID] = c
	}

	return c
}

// lookup returns the owner's entry without creating it.
func (r *cartRepository) lookup(ownerID string) (*ownerCart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[ownerID]
	return c, ok
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	c := r.cart(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, 0, len(c.items))
	for _, item := range c.items {
		product, err := r.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			// a dangling item is a storage fault, not a missing resource
			return domain.Cart{}, fmt.Errorf("products.GetProduct[%s]: %v", item.ProductID, err)
		}
		item.Name = product.Name
		item.ImageURL = product.ImageURL
		items = append(items, item)
	}
	sortItems(items)

	cart, err := domain.NewCart(ownerID, items, r.currency)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("domain.NewCart: %w", err)
	}
	cart.CreatedAt = c.createdAt
	cart.UpdatedAt = c.updatedAt

	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 || item.Quantity > domain.MaxQuantity {
		return fmt.Errorf("%w: quantity[%d] out of range", domain.ErrInvalidArgument, item.Quantity)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c := r.cart(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	now := r.now()
	if existing, ok := c.items[item.ProductID]; ok {
		if existing.Quantity > domain.MaxQuantity-item.Quantity {
			return fmt.Errorf("%w: quantity of product[%s] would exceed %d",
				domain.ErrInvalidArgument, item.ProductID, domain.MaxQuantity)
		}
		existing.Quantity += item.Quantity
		existing.UpdatedAt = now
		c.items[item.ProductID] = existing
	} else {
		c.items[item.ProductID] = domain.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	c.updatedAt = now

	return nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return false, fmt.Errorf("%w: quantity[%d] out of range", domain.ErrInvalidArgument, quantity)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c, ok := r.lookup(ownerID)
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.items[productID]
	if !ok {
		return false, nil
	}

	now := r.now()
	existing.Quantity = quantity
	existing.UpdatedAt = now
	c.items[productID] = existing
	c.updatedAt = now

	return true, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c, ok := r.lookup(ownerID)
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[productID]; !ok {
		return false, nil
	}

	delete(c.items, productID)
	c.updatedAt = r.now()

	return true, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c := r.cart(ownerID)
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.items)
	c.updatedAt = r.now()

	return nil
}
