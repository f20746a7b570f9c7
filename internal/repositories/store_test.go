package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTxCommits(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE id=\$1\)`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	var exists bool
	err := store.WithinTx(context.Background(), func(repos Repos) error {
		var err error
		exists, err = repos.Users.Exists(context.Background(), 2)
		return err
	})

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(Repos) error { return boom })

	assert.ErrorIs(t, err, boom)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = store.WithinTx(context.Background(), func(Repos) error { panic("bad state") })
	})
}

func TestWithinTxBeginFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := store.WithinTx(context.Background(), func(Repos) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}
