package memory

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/port"
	"sync"
	"time"
)

type productRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
	now      func() time.Time
}

func NewProduct() port.ProductRepository {
	return &productRepository{
		products: make(map[uuid.UUID]domain.Product),
		now:      time.Now,
	}
}

func (r *productRepository) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == uuid.Nil {
		return domain.Product{}, fmt.Errorf("product.ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return domain.Product{}, fmt.Errorf("product[%s] already exists", product.ID)
	}

	now := r.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = product

	return product, nil
}

func (r *productRepository) GetProduct(_ context.Context, id uuid.UUID) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrNotFound)
	}

	return product, nil
}

func (r *productRepository) ListProducts(_ context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("limit[%d] offset[%d] out of range", limit, offset)
	}

	r.mu.RLock()
	products := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	r.mu.RUnlock()

	sortProducts(products)

	if offset >= len(products) {
		return []domain.Product{}, nil
	}
	end := min(offset+limit, len(products))

	return products[offset:end], nil
}

func (r *productRepository) UpdatePrice(_ context.Context, id uuid.UUID, price domain.Money) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrNotFound)
	}

	product.Price = price
	product.UpdatedAt = r.now()
	r.products[id] = product

	return product, nil
}
