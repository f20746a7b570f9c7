package models

import "time"

// Chat is a conversation. One-to-one chats carry their sorted member pair.
type Chat struct {
	ID        int       `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name,omitempty"`
	IsGroup   bool      `db:"is_group" json:"is_group"`
	DMLowID   *int      `db:"dm_low_id" json:"-"`
	DMHighID  *int      `db:"dm_high_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatRow is one chat of a user joined with a counterpart member and the
// most recent message. Counterpart and message columns are NULL when absent.
type ChatRow struct {
	ChatID        int        `db:"id"`
	Name          *string    `db:"name"`
	IsGroup       bool       `db:"is_group"`
	CreatedAt     time.Time  `db:"created_at"`
	PeerID        *int       `db:"peer_id"`
	PeerName      *string    `db:"peer_name"`
	PeerAvatar    *string    `db:"peer_avatar"`
	PeerLastSeen  *time.Time `db:"peer_last_seen"`
	LastMessage   *string    `db:"last_message"`
	LastMessageAt *time.Time `db:"last_message_at"`
}

// ChatSummary is the chat list entry shown to a user.
type ChatSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	LastMessage string `json:"lastMessage"`
	Timestamp   string `json:"timestamp"`
	Unread      int    `json:"unread"`
	Online      bool   `json:"online"`
}
