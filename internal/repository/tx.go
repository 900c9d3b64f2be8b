package repository

import "context"

// TxManager runs fn inside one database transaction. Every mutating
// operation in this subsystem (cart add, migration, order placement, status
// change) commits or rolls back as a whole; partial application is never an
// observable state. Nested calls join the surrounding transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
