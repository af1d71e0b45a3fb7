package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/port"
	"go.uber.org/zap"
)

// CartService applies cart mutations for an already resolved owner.
type CartService struct {
	carts    port.CartRepository
	products port.ProductRepository
	tx       port.Transactor
	logger   *zap.Logger
}

// NewCartService takes tx to read the price and store the item atomically.
// A nil tx runs both directly on carts and products.
func NewCartService(carts port.CartRepository, products port.ProductRepository, tx port.Transactor, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tx == nil {
		tx = directTx{carts: carts, products: products}
	}

	return &CartService{
		carts:    carts,
		products: products,
		tx:       tx,
		logger:   logger.Named("cart"),
	}
}

func (s *CartService) Get(ctx context.Context, ownerID string) (domain.Cart, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}

// AddItem adds qty units of a product. A product already in the cart has its
// quantity incremented and keeps the price it was first added at.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, qty int) (domain.Cart, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.Cart{}, err
	}
	if productID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("%w: productId is required", domain.ErrInvalidArgument)
	}
	if qty <= 0 || qty > domain.MaxQuantity {
		return domain.Cart{}, fmt.Errorf("%w: qty[%d] must be between 1 and %d", domain.ErrInvalidArgument, qty, domain.MaxQuantity)
	}

	var product domain.Product
	err := s.tx.InTx(ctx, func(carts port.CartRepository, products port.ProductRepository) error {
		var err error
		product, err = products.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("products.GetProduct: %w", err)
		}

		err = carts.AddItem(ctx, ownerID, domain.CartItem{
			ProductID: product.ID,
			Quantity:  qty,
			Price:     product.Price,
		})
		if err != nil {
			return fmt.Errorf("carts.AddItem: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("tx.InTx: %w", err)
	}

	s.logger.Debug("item added",
		zap.String("owner_id", ownerID),
		zap.Stringer("product_id", productID),
		zap.Int("qty", qty),
		zap.Stringer("price", product.Price))

	return s.Get(ctx, ownerID)
}

// SetItemQuantity sets the quantity of an item already in the cart.
// A quantity of zero or less removes the item instead of failing.
func (s *CartService) SetItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, qty int) (domain.Cart, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.Cart{}, err
	}
	if qty > domain.MaxQuantity {
		return domain.Cart{}, fmt.Errorf("%w: qty[%d] exceeds %d", domain.ErrInvalidArgument, qty, domain.MaxQuantity)
	}

	var (
		found bool
		err   error
	)
	if qty <= 0 {
		found, err = s.carts.DeleteItem(ctx, ownerID, productID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("carts.DeleteItem: %w", err)
		}
	} else {
		found, err = s.carts.SetItemQuantity(ctx, ownerID, productID, qty)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("carts.SetItemQuantity: %w", err)
		}
	}

	if !found {
		return domain.Cart{}, fmt.Errorf("cart item[%s]: %w", productID, domain.ErrNotFound)
	}

	s.logger.Debug("item quantity set",
		zap.String("owner_id", ownerID),
		zap.Stringer("product_id", productID),
		zap.Int("qty", qty))

	return s.Get(ctx, ownerID)
}

// RemoveItem is idempotent: removing an absent item returns the cart as is.
func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID) (domain.Cart, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.Cart{}, err
	}

	deleted, err := s.carts.DeleteItem(ctx, ownerID, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("carts.DeleteItem: %w", err)
	}

	if deleted {
		s.logger.Debug("item removed",
			zap.String("owner_id", ownerID),
			zap.Stringer("product_id", productID))
	}

	return s.Get(ctx, ownerID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) (domain.Cart, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.Cart{}, err
	}

	if err := s.carts.ClearCart(ctx, ownerID); err != nil {
		return domain.Cart{}, fmt.Errorf("carts.ClearCart: %w", err)
	}

	s.logger.Debug("cart cleared", zap.String("owner_id", ownerID))

	return s.Get(ctx, ownerID)
}

type directTx struct {
	carts    port.CartRepository
	products port.ProductRepository
}

func (d directTx) InTx(_ context.Context, fn func(carts port.CartRepository, products port.ProductRepository) error) error {
	return fn(d.carts, d.products)
}

func validateOwner(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner identity is empty", domain.ErrInvalidArgument)
	}
	return nil
}

// IsClientError reports whether err is caused by the request rather than the
// service.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrUnauthorized)
}
