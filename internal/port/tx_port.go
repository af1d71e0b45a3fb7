package port

import "context"

type Transactor interface {
	// InTx runs fn with repositories sharing one transaction. Nothing is
	// committed unless fn returns nil.
	InTx(ctx context.Context, fn func(carts CartRepository, products ProductRepository) error) error
}
