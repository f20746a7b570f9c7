package models

import "time"

// Message is a stored chat message. Encrypted is a metadata tag only; the
// text is stored as sent.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chat_id"`
	SenderID  int       `db:"sender_id" json:"sender_id"`
	Text      string    `db:"text" json:"text"`
	Encrypted bool      `db:"encrypted" json:"encrypted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Sender tags relative to the requesting user.
const (
	SenderSelf  = "self"
	SenderOther = "other"
)

// MessageView is a message as seen by one chat member.
type MessageView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Time      string `json:"time"`
	Encrypted bool   `json:"encrypted"`
}
