package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageCols = []string{"id", "chat_id", "sender_id", "text", "encrypted", "created_at"}

func TestMessageCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO messages \(chat_id, sender_id, text, encrypted\) VALUES \(\$1, \$2, \$3, TRUE\)`).
		WithArgs(5, 1, "hello").
		WillReturnRows(sqlmock.NewRows(messageCols).AddRow(42, 5, 1, "hello", true, at))

	msg, err := repo.Create(context.Background(), 5, 1, "hello")

	require.NoError(t, err)
	assert.Equal(t, 42, msg.ID)
	assert.True(t, msg.Encrypted)
	assert.Equal(t, at, msg.CreatedAt)
}

func TestListByChatFullHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE chat_id=\$1\s+ORDER BY created_at ASC, id ASC$`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(messageCols).
			AddRow(1, 5, 1, "first", true, at).
			AddRow(2, 5, 2, "second", true, at.Add(time.Second)))

	msgs, err := repo.ListByChat(context.Background(), 5, nil, 0)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestListByChatAfterCursor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`\(created_at, id\) > \(\$2::timestamptz, \$3::int\)`).
		WithArgs(5, at, 2, 21).
		WillReturnRows(sqlmock.NewRows(messageCols).AddRow(3, 5, 1, "third", true, at.Add(time.Minute)))

	msgs, err := repo.ListByChat(context.Background(), 5, &Cursor{CreatedAt: at, ID: 2}, 21)

	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 3, msgs[0].ID)
}
