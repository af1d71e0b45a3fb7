package domain

import (
	"fmt"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"math"
	"time"
)

// MaxQuantity is the largest quantity a cart item can hold, summed over adds.
const MaxQuantity = math.MaxInt32

type Cart struct {
	OwnerID  string
	Items    []CartItem
	Subtotal Money

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
	// Price is the unit price captured when the product was first added.
	Price Money

	// display data resolved from the product, not persisted with the item
	Name     string
	ImageURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i CartItem) LineTotal() Money {
	return i.Price.Mul(i.Quantity)
}

// NewCart builds a cart and derives its subtotal from items.
// An empty cart is priced in fallback.
func NewCart(ownerID string, items []CartItem, fallback currency.Unit) (Cart, error) {
	subtotal, err := Subtotal(items, fallback)
	if err != nil {
		return Cart{}, fmt.Errorf("Subtotal: %w", err)
	}

	if items == nil {
		items = []CartItem{}
	}

	return Cart{
		OwnerID:  ownerID,
		Items:    items,
		Subtotal: subtotal,
	}, nil
}

// Subtotal sums quantity × unit price over items.
func Subtotal(items []CartItem, fallback currency.Unit) (Money, error) {
	if len(items) == 0 {
		return ZeroMoney(fallback), nil
	}

	total := ZeroMoney(items[0].Price.Currency)
	for _, item := range items {
		var err error
		total, err = total.Add(item.LineTotal())
		if err != nil {
			return Money{}, fmt.Errorf("product[%s]: %w", item.ProductID, err)
		}
	}

	return total, nil
}

func (c Cart) Item(productID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
