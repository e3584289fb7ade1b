package shared

import "context"

// TransactionManager runs a function inside one database transaction.
// Repositories resolve the transaction handle from the context, so every
// repository call made within fn joins the same transaction. fn returning
// an error rolls the transaction back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
