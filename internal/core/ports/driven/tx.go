package driven

import "context"

// Transactor runs a function inside one store transaction.
type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	// Nested calls join the outer transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
