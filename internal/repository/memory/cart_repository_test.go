package memory_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-service/internal/domain"
	"github.com/nikolayk812/cart-service/internal/port"
	"github.com/nikolayk812/cart-service/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func newRepos(t *testing.T) (port.CartRepository, port.ProductRepository) {
	t.Helper()

	products := memory.NewProduct()
	return memory.NewCart(products, currency.USD), products
}

func createProduct(t *testing.T, products port.ProductRepository, price string) domain.Product {
	t.Helper()

	product, err := products.CreateProduct(t.Context(), domain.Product{
		ID:    uuid.New(),
		Name:  gofakeit.ProductName(),
		Price: domain.Money{Amount: decimal.RequireFromString(price), Currency: currency.USD},
	})
	require.NoError(t, err)

	return product
}

func TestCartRepository_GetCartCreatesEmpty(t *testing.T) {
	carts, _ := newRepos(t)

	cart, err := carts.GetCart(t.Context(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", cart.OwnerID)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)
	assert.True(t, cart.Subtotal.Amount.IsZero())
	assert.Equal(t, currency.USD, cart.Subtotal.Currency)
	assert.False(t, cart.CreatedAt.IsZero())

	_, err = carts.GetCart(t.Context(), "")
	require.EqualError(t, err, "ownerID is empty")
}

func TestCartRepository_AddItem(t *testing.T) {
	tests := []struct {
		name      string
		ownerID   string
		quantity  int
		wantError string
	}{
		{name: "add item: ok", ownerID: "alice", quantity: 2},
		{name: "empty owner: error", ownerID: "", quantity: 1, wantError: "ownerID is empty"},
		{name: "negative quantity: error", ownerID: "alice", quantity: -1, wantError: "invalid argument: quantity[-1] out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts, products := newRepos(t)
			product := createProduct(t, products, "9.99")

			err := carts.AddItem(t.Context(), tt.ownerID, domain.CartItem{
				ProductID: product.ID,
				Quantity:  tt.quantity,
				Price:     product.Price,
			})
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			cart, err := carts.GetCart(t.Context(), tt.ownerID)
			require.NoError(t, err)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, product.Name, cart.Items[0].Name)
			assert.Equal(t, tt.quantity, cart.Items[0].Quantity)
			assert.Equal(t, "19.98", cart.Subtotal.Amount.StringFixed(2))
		})
	}
}

func TestCartRepository_AddItemKeepsFirstPrice(t *testing.T) {
	carts, products := newRepos(t)
	ctx := t.Context()
	product := createProduct(t, products, "100")

	require.NoError(t, carts.AddItem(ctx, "alice", domain.CartItem{
		ProductID: product.ID, Quantity: 2, Price: product.Price,
	}))

	repriced, err := products.UpdatePrice(ctx, product.ID, domain.Money{
		Amount: decimal.NewFromInt(150), Currency: currency.USD,
	})
	require.NoError(t, err)

	require.NoError(t, carts.AddItem(ctx, "alice", domain.CartItem{
		ProductID: product.ID, Quantity: 1, Price: repriced.Price,
	}))

	cart, err := carts.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "100", cart.Items[0].Price.Amount.String())
	assert.Equal(t, "300", cart.Subtotal.Amount.String())
}

func TestCartRepository_SetItemQuantity(t *testing.T) {
	carts, products := newRepos(t)
	ctx := t.Context()
	product := createProduct(t, products, "5")

	updated, err := carts.SetItemQuantity(ctx, "nobody", product.ID, 1)
	require.NoError(t, err)
	assert.False(t, updated, "absent cart")

	require.NoError(t, carts.AddItem(ctx, "alice", domain.CartItem{
		ProductID: product.ID, Quantity: 4, Price: product.Price,
	}))

	updated, err = carts.SetItemQuantity(ctx, "alice", uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, updated, "absent item")

	updated, err = carts.SetItemQuantity(ctx, "alice", product.ID, 2)
	require.NoError(t, err)
	assert.True(t, updated)

	cart, err := carts.GetCart(ctx, "alice")
	require.NoError(t, err)
	item, ok := cart.Item(product.ID)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "10", cart.Subtotal.Amount.String())

	_, err = carts.SetItemQuantity(ctx, "alice", product.ID, 0)
	require.EqualError(t, err, "invalid argument: quantity[0] out of range")
}

func TestCartRepository_DeleteItemAndClear(t *testing.T) {
	carts, products := newRepos(t)
	ctx := t.Context()
	p1 := createProduct(t, products, "1.50")
	p2 := createProduct(t, products, "2.25")

	for _, p := range []domain.Product{p1, p2} {
		require.NoError(t, carts.AddItem(ctx, "alice", domain.CartItem{
			ProductID: p.ID, Quantity: 2, Price: p.Price,
		}))
	}

	deleted, err := carts.DeleteItem(ctx, "alice", p1.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = carts.DeleteItem(ctx, "alice", p1.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	cart, err := carts.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "4.50", cart.Subtotal.Amount.StringFixed(2))

	require.NoError(t, carts.ClearCart(ctx, "alice"))

	cart, err = carts.GetCart(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.Amount.IsZero())
}

func TestCartRepository_AddItemConcurrently(t *testing.T) {
	carts, products := newRepos(t)
	ctx := t.Context()
	product := createProduct(t, products, "3")

	const workers = 50

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, carts.AddItem(ctx, "alice", domain.CartItem{
				ProductID: product.ID, Quantity: 1, Price: product.Price,
			}))
		}()
	}
	wg.Wait()

	cart, err := carts.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, workers, cart.Items[0].Quantity)
	assert.Equal(t, "150", cart.Subtotal.Amount.String())
}

func TestCartRepository_CanceledContext(t *testing.T) {
	carts, products := newRepos(t)
	product := createProduct(t, products, "3")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := carts.AddItem(ctx, "alice", domain.CartItem{
		ProductID: product.ID, Quantity: 1, Price: product.Price,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCartRepository_QuantityBounds(t *testing.T) {
	carts, products := newRepos(t)
	ctx := t.Context()
	product := createProduct(t, products, "1")

	add := func(qty int) error {
		return carts.AddItem(ctx, "alice", domain.CartItem{
			ProductID: product.ID, Quantity: qty, Price: product.Price,
		})
	}

	require.ErrorIs(t, add(math.MaxInt32+1), domain.ErrInvalidArgument)
	require.ErrorIs(t, add(math.MaxInt), domain.ErrInvalidArgument)

	require.NoError(t, add(domain.MaxQuantity-1))
	require.NoError(t, add(1))
	require.ErrorIs(t, add(1), domain.ErrInvalidArgument)

	_, err := carts.SetItemQuantity(ctx, "alice", product.ID, domain.MaxQuantity+1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	cart, err := carts.GetCart(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.MaxQuantity, cart.Items[0].Quantity)
	assert.False(t, cart.Subtotal.IsNegative())
	assert.Equal(t, "2147483647", cart.Subtotal.Amount.String())
}

func TestCartRepository_GetCartDanglingProduct(t *testing.T) {
	carts, _ := newRepos(t)
	ctx := t.Context()

	err := carts.AddItem(ctx, "alice", domain.CartItem{
		ProductID: uuid.New(),
		Quantity:  1,
		Price:     domain.Money{Amount: decimal.NewFromInt(5), Currency: currency.USD},
	})
	require.NoError(t, err)

	_, err = carts.GetCart(ctx, "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
