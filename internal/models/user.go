package models

import "time"

// DefaultUserAvatar is assigned on registration when none is given.
const DefaultUserAvatar = "👤"

// User is a registered account. LastSeen is nil until the first login.
type User struct {
	ID        int        `db:"id" json:"id"`
	Phone     string     `db:"phone" json:"phone"`
	Name      string     `db:"name" json:"name"`
	Avatar    string     `db:"avatar" json:"avatar"`
	Status    string     `db:"status" json:"status"`
	LastSeen  *time.Time `db:"last_seen" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"-"`
}

// Contact is another user as listed in the contact directory.
type Contact struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Status string `json:"status"`
	Online bool   `json:"online"`
}
