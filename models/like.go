package models

import "time"

// Like records that a user liked a post. The composite unique index is the
// single source of truth for "does a like exist": concurrent duplicate
// inserts fail on the constraint and are handled as idempotent outcomes.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
