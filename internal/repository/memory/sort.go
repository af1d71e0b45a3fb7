package memory

import (
	"github.com/nikolayk812/cart-service/internal/domain"
	"slices"
	"strings"
)

// sortItems orders items the way the Postgres store does: by creation time,
// then product ID.
func sortItems(items []domain.CartItem) {
	slices.SortFunc(items, func(a, b domain.CartItem) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ProductID.String(), b.ProductID.String())
	})
}

func sortProducts(products []domain.Product) {
	slices.SortFunc(products, func(a, b domain.Product) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
