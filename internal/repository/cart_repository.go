package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-service/internal/db"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
	// currency of an empty cart
	currency currency.Unit
}

func NewCart(pool *pgxpool.Pool, cur currency.Unit) port.CartRepository {
	return &cartRepository{
		q:        db.New(pool),
		pool:     pool,
		currency: cur,
	}
}

func NewCartWithTx(tx pgx.Tx, cur currency.Unit) port.CartRepository {
	return &cartRepository{
		q:        db.New(tx),
		pool:     nil, // use provided transaction instead
		currency: cur,
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		if err := q.EnsureCart(ctx, ownerID); err != nil {
			return domain.Cart{}, fmt.Errorf("q.EnsureCart: %w", err)
		}

		header, err := q.GetCartHeader(ctx, ownerID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.GetCartHeader: %w", err)
		}

		dbCartItems, err := q.GetCart(ctx, ownerID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
		}

		items, err := mapGetCartRowsToDomain(dbCartItems)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
		}

		cart, err := domain.NewCart(ownerID, items, r.currency)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("domain.NewCart: %w", err)
		}
		cart.CreatedAt = header.CreatedAt
		cart.UpdatedAt = header.UpdatedAt

		return cart, nil
	})
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 || item.Quantity > domain.MaxQuantity {
		return fmt.Errorf("%w: quantity[%d] out of range", domain.ErrInvalidArgument, item.Quantity)
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.EnsureCart(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.EnsureCart: %w", err)
		}

		rowsAffected, err := q.AddItem(ctx, db.AddItemParams{
			OwnerID:       ownerID,
			ProductID:     item.ProductID,
			Quantity:      int32(item.Quantity),
			PriceAmount:   item.Price.Amount,
			PriceCurrency: item.Price.Currency.String(),
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.AddItem: %w", err)
		}

		// the upsert skips rows whose summed quantity would leave int4
		if rowsAffected == 0 {
			return struct{}{}, fmt.Errorf("%w: quantity of product[%s] would exceed %d",
				domain.ErrInvalidArgument, item.ProductID, domain.MaxQuantity)
		}

		if err := q.TouchCart(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.TouchCart: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return false, fmt.Errorf("%w: quantity[%d] out of range", domain.ErrInvalidArgument, quantity)
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (bool, error) {
		rowsAffected, err := q.SetItemQuantity(ctx, db.SetItemQuantityParams{
			OwnerID:   ownerID,
			ProductID: productID,
			Quantity:  int32(quantity),
		})
		if err != nil {
			return false, fmt.Errorf("q.SetItemQuantity: %w", err)
		}

		if rowsAffected == 0 {
			return false, nil
		}

		if err := q.TouchCart(ctx, ownerID); err != nil {
			return false, fmt.Errorf("q.TouchCart: %w", err)
		}

		return true, nil
	})
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (bool, error) {
		rowsAffected, err := q.DeleteItem(ctx, db.DeleteItemParams{
			OwnerID:   ownerID,
			ProductID: productID,
		})
		if err != nil {
			return false, fmt.Errorf("q.DeleteItem: %w", err)
		}

		if rowsAffected == 0 {
			return false, nil
		}

		if err := q.TouchCart(ctx, ownerID); err != nil {
			return false, fmt.Errorf("q.TouchCart: %w", err)
		}

		return true, nil
	})
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.EnsureCart(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.EnsureCart: %w", err)
		}

		if _, err := q.ClearCart(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.ClearCart: %w", err)
		}

		if err := q.TouchCart(ctx, ownerID); err != nil {
			return struct{}{}, fmt.Errorf("q.TouchCart: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Name:      row.Name,
		ImageURL:  row.ImageUrl,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
