package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	Create(ctx context.Context, chatID int, senderID int, text string) (models.Message, error)
	ListByChat(ctx context.Context, chatID int, after *Cursor, limit int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	q sqlx.ExtContext
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(q sqlx.ExtContext) *MessageRepo {
	return &MessageRepo{q: q}
}

const messageColumns = `id, chat_id, sender_id, text, encrypted, created_at`

// Create stores a message with a server-assigned timestamp.
func (r *MessageRepo) Create(ctx context.Context, chatID int, senderID int, text string) (models.Message, error) {
	var msg models.Message
	err := r.q.QueryRowxContext(ctx, `INSERT INTO messages (chat_id, sender_id, text, encrypted) VALUES ($1, $2, $3, TRUE) RETURNING `+messageColumns,
		chatID, senderID, text).
		Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Text, &msg.Encrypted, &msg.CreatedAt)
	return msg, err
}

// ListByChat returns chat messages in ascending (created_at, id) order.
// A zero limit returns the whole history after the cursor.
func (r *MessageRepo) ListByChat(ctx context.Context, chatID int, after *Cursor, limit int) ([]models.Message, error) {
	var (
		msgs []models.Message
		err  error
	)
	switch {
	case after == nil && limit <= 0:
		err = sqlx.SelectContext(ctx, r.q, &msgs, `SELECT `+messageColumns+`
            FROM messages
            WHERE chat_id=$1
            ORDER BY created_at ASC, id ASC`, chatID)
	case after == nil:
		err = sqlx.SelectContext(ctx, r.q, &msgs, `SELECT `+messageColumns+`
            FROM messages
            WHERE chat_id=$1
            ORDER BY created_at ASC, id ASC
            LIMIT $2`, chatID, limit)
	default:
		var limitArg any
		if limit > 0 {
			limitArg = limit
		}
		err = sqlx.SelectContext(ctx, r.q, &msgs, `SELECT `+messageColumns+`
            FROM messages
            WHERE chat_id=$1 AND (created_at, id) > ($2::timestamptz, $3::int)
            ORDER BY created_at ASC, id ASC
            LIMIT $4`, chatID, after.CreatedAt, after.ID, limitArg)
	}
	return msgs, err
}
