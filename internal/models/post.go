package models

import "time"

// Post carries the author's name and avatar denormalized at creation time so
// feeds render without a join. Likes and comments are JSONB lists guarded by
// Version, which never serializes.
type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	Version   int       `json:"-"`
	CreatedAt time.Time `json:"date"`
}

type Like struct {
	UserID int `json:"user"`
}

type Comment struct {
	ID     string    `json:"id"`
	UserID int       `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}
