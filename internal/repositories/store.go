package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repos groups repositories bound to one transaction.
type Repos struct {
	Users    UserRepository
	Chats    ChatRepository
	Messages MessageRepository
}

// NewRepos binds all repositories to q, which is either the pool or a
// transaction.
func NewRepos(q sqlx.ExtContext) Repos {
	return Repos{
		Users:    NewUserRepo(q),
		Chats:    NewChatRepo(q),
		Messages: NewMessageRepo(q),
	}
}

// Store hands out transaction-scoped repositories.
type Store struct {
	db *sqlx.DB
}

// NewStore constructs a Store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// WithinTx runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back on an error or panic; the connection is
// released on every path.
func (s *Store) WithinTx(ctx context.Context, fn func(repos Repos) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(NewRepos(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
