package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrSelfChat     = errors.New("cannot create chat with self")
)

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	CreateOrGetDirectChat(ctx context.Context, userID int, peerID int) (chatID int, created bool, err error)
	GetChat(ctx context.Context, chatID int) (models.Chat, error)
	IsMember(ctx context.Context, chatID int, userID int) (bool, error)
	ListForUser(ctx context.Context, userID int) ([]models.ChatRow, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	q sqlx.ExtContext
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(q sqlx.ExtContext) *ChatRepo {
	return &ChatRepo{q: q}
}

const findDirectChatQuery = `SELECT c.id FROM chats c
        JOIN chat_members m1 ON m1.chat_id = c.id AND m1.user_id = $1
        JOIN chat_members m2 ON m2.chat_id = c.id AND m2.user_id = $2
        WHERE c.is_group = FALSE
        ORDER BY c.id
        LIMIT 1`

// CreateOrGetDirectChat returns the one-to-one chat of the pair, creating it
// with both member rows when missing. It must run inside a transaction: the
// advisory lock on the sorted pair is held until commit, so a concurrent
// caller for the same pair waits and then finds the committed chat. The
// unique (dm_low_id, dm_high_id) constraint backs this up.
func (r *ChatRepo) CreateOrGetDirectChat(ctx context.Context, userID int, peerID int) (int, bool, error) {
	if userID == peerID {
		return 0, false, ErrSelfChat
	}
	low, high := userID, peerID
	if low > high {
		low, high = high, low
	}

	if _, err := r.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, low, high); err != nil {
		return 0, false, err
	}

	var chatID int
	err := r.q.QueryRowxContext(ctx, findDirectChatQuery, low, high).Scan(&chatID)
	if err == nil {
		return chatID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	err = r.q.QueryRowxContext(ctx, `INSERT INTO chats (is_group, dm_low_id, dm_high_id) VALUES (FALSE, $1, $2)
        ON CONFLICT (dm_low_id, dm_high_id) DO NOTHING RETURNING id`, low, high).Scan(&chatID)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race to a writer that did not take the lock.
		if err := r.q.QueryRowxContext(ctx, `SELECT id FROM chats WHERE dm_low_id=$1 AND dm_high_id=$2`, low, high).Scan(&chatID); err != nil {
			return 0, false, err
		}
		return chatID, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	if _, err := r.q.ExecContext(ctx, `INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2), ($1, $3)
        ON CONFLICT DO NOTHING`, chatID, low, high); err != nil {
		return 0, false, err
	}
	return chatID, true, nil
}

// GetChat fetches a chat by id.
func (r *ChatRepo) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := sqlx.GetContext(ctx, r.q, &chat, `SELECT id, name, is_group, dm_low_id, dm_high_id, created_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// IsMember checks whether a user belongs to the chat.
func (r *ChatRepo) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.q, &exists, `SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListForUser returns the chats the user is a member of, each with at most
// one other member and its latest message, most recent activity first.
func (r *ChatRepo) ListForUser(ctx context.Context, userID int) ([]models.ChatRow, error) {
	query := `SELECT c.id, c.name, c.is_group, c.created_at,
               peer.id AS peer_id, peer.name AS peer_name, peer.avatar AS peer_avatar, peer.last_seen AS peer_last_seen,
               lm.text AS last_message, lm.created_at AS last_message_at
        FROM chats c
        JOIN chat_members cm ON cm.chat_id = c.id AND cm.user_id = $1
        LEFT JOIN LATERAL (
            SELECT u.id, u.name, u.avatar, u.last_seen
            FROM chat_members cm2
            JOIN users u ON u.id = cm2.user_id
            WHERE cm2.chat_id = c.id AND cm2.user_id <> $1
            ORDER BY cm2.user_id
            LIMIT 1
        ) peer ON TRUE
        LEFT JOIN LATERAL (
            SELECT m.text, m.created_at
            FROM messages m
            WHERE m.chat_id = c.id
            ORDER BY m.created_at DESC, m.id DESC
            LIMIT 1
        ) lm ON TRUE
        ORDER BY lm.created_at DESC NULLS LAST, c.id DESC`

	var rows []models.ChatRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, userID); err != nil {
		return nil, err
	}
	return rows, nil
}
