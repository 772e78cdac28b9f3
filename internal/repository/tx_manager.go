package repository

import "context"

// Repos bundled per transaction.
type TxRepos interface {
	Orders() OrderRepository
	Items() ItemRepository
}

// TransactionManager hides begin/commit/rollback from the usecases. An item
// write plus the recomputed order total is a single unit of work.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
