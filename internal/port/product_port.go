package port

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	// GetProduct returns domain.ErrNotFound if the product does not exist.
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price domain.Money) (domain.Product, error)
}
