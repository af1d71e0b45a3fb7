package dto

import (
	"github.com/nikolayk812/cart-service/internal/domain"
	"time"
)

type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type CartItemResponse struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	ImageURL  string        `json:"image_url,omitempty"`
	Quantity  int           `json:"quantity"`
	UnitPrice MoneyResponse `json:"unit_price"`
	LineTotal MoneyResponse `json:"line_total"`
}

type CartResponse struct {
	OwnerID   string             `json:"owner_id"`
	Items     []CartItemResponse `json:"items"`
	Subtotal  MoneyResponse      `json:"subtotal"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddItemRequest is the body of POST /carts/items. Qty defaults to 1.
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       *int   `json:"qty"`
}

// SetQuantityRequest is the body of PATCH /carts/items/:productId.
type SetQuantityRequest struct {
	Qty *int `json:"qty" binding:"required"`
}

func NewMoneyResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

func NewCartResponse(cart domain.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			UnitPrice: NewMoneyResponse(item.Price),
			LineTotal: NewMoneyResponse(item.LineTotal()),
		})
	}

	return CartResponse{
		OwnerID:   cart.OwnerID,
		Items:     items,
		Subtotal:  NewMoneyResponse(cart.Subtotal),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}
