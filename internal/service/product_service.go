package service

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type CreateProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       domain.Money
}

// ProductService manages the catalog carts take their prices from.
type ProductService struct {
	products port.ProductRepository
	currency currency.Unit
	logger   *zap.Logger
}

func NewProductService(products port.ProductRepository, cur currency.Unit, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProductService{
		products: products,
		currency: cur,
		logger:   logger.Named("product"),
	}
}

func (s *ProductService) Currency() currency.Unit {
	return s.currency
}

func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if err := s.validatePrice(input.Price); err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.CreateProduct(ctx, domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.CreateProduct: %w", err)
	}

	s.logger.Info("product created",
		zap.Stringer("product_id", product.ID),
		zap.Stringer("price", product.Price))

	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	return product, nil
}

// List pages through the catalog. A non-positive limit selects the default
// page size; limits above MaxPageSize are capped.
func (s *ProductService) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if offset < 0 || offset > domain.MaxOffset {
		return nil, fmt.Errorf("%w: offset[%d] must be between 0 and %d", domain.ErrInvalidArgument, offset, domain.MaxOffset)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)

	products, err := s.products.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}

	return products, nil
}

// UpdatePrice changes the catalog price. Items already in carts keep the
// price they were added at.
func (s *ProductService) UpdatePrice(ctx context.Context, id uuid.UUID, price domain.Money) (domain.Product, error) {
	if err := s.validatePrice(price); err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.UpdatePrice(ctx, id, price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.UpdatePrice: %w", err)
	}

	s.logger.Info("product repriced",
		zap.Stringer("product_id", id),
		zap.Stringer("price", product.Price))

	return product, nil
}

func (s *ProductService) validatePrice(price domain.Money) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price[%s] is negative", domain.ErrInvalidArgument, price.Amount)
	}
	if price.Amount.GreaterThan(domain.MaxPrice) {
		return fmt.Errorf("%w: price[%s] exceeds %s", domain.ErrInvalidArgument, price.Amount, domain.MaxPrice)
	}
	if price.Currency != s.currency {
		return fmt.Errorf("%w: currency[%s] is not %s", domain.ErrInvalidArgument, price.Currency, s.currency)
	}
	if !price.Amount.Equal(price.Amount.Round(2)) {
		return fmt.Errorf("%w: price[%s] has more than 2 decimal places", domain.ErrInvalidArgument, price.Amount)
	}
	return nil
}
