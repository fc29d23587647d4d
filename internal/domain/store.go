package domain

import "context"

// Store bundles the repositories that share one database handle. Inside
// WithTx all repositories are bound to the same transaction.
type Store interface {
	Users() UserRepository
	Chats() ChatRepository
	Messages() MessageRepository
}

// TxStore is a Store that can run a function inside a single transaction.
// The transaction commits when fn returns nil and rolls back when fn
// returns an error or panics.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
