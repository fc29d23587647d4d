package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jejomarc/askjejo/internal/domain"
)

// querier is the subset of pgx operations shared by *pgxpool.Pool and
// pgx.Tx, so the same repositories work inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements domain.TxStore over a pgx pool
type Store struct {
	db       *DB
	users    *UserRepository
	chats    *ChatRepository
	messages *MessageRepository
}

// NewStore creates a pool-backed store
func NewStore(db *DB) *Store {
	return &Store{
		db:       db,
		users:    NewUserRepository(db.Pool),
		chats:    NewChatRepository(db.Pool),
		messages: NewMessageRepository(db.Pool),
	}
}

func (s *Store) Users() domain.UserRepository       { return s.users }
func (s *Store) Chats() domain.ChatRepository       { return s.chats }
func (s *Store) Messages() domain.MessageRepository { return s.messages }

// txStore binds the repositories to one transaction
type txStore struct {
	users    *UserRepository
	chats    *ChatRepository
	messages *MessageRepository
}

func (s *txStore) Users() domain.UserRepository       { return s.users }
func (s *txStore) Chats() domain.ChatRepository       { return s.chats }
func (s *txStore) Messages() domain.MessageRepository { return s.messages }

// WithTx runs fn inside a single database transaction. The transaction is
// committed when fn returns nil; any error or panic from fn rolls back
// every write made through the passed Store.
func (s *Store) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op after a successful commit; also runs during panic unwinding.
	defer tx.Rollback(ctx)

	bound := &txStore{
		users:    NewUserRepository(tx),
		chats:    NewChatRepository(tx),
		messages: NewMessageRepository(tx),
	}

	if err := fn(bound); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
