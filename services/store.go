package services

import (
	"context"
	"time"

	"github.com/leoverde/pulse/models"
)

// PostView is the read shape of a post as seen by one viewer. Counts are
// live values computed at read time; IsLiked reflects the viewer passed to
// the query (false for anonymous viewers).
type PostView struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	Avatar       string    `json:"avatar"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LikeCount    int64     `json:"likes_count"`
	CommentCount int64     `json:"comments_count"`
	IsLiked      bool      `json:"is_liked"`
}

// CommentView is a comment joined with its author's public identity.
type CommentView struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStats aggregates a user's activity for profile pages.
type UserStats struct {
	PostCount     int64 `json:"posts_count"`
	LikesReceived int64 `json:"total_likes_received"`
	CommentCount  int64 `json:"comments_count"`
}

// Store is the relational persistence contract the core operates on.
// Implementations return errors from this package's taxonomy: uniqueness
// violations surface as KindConflict, owned mutations on foreign rows as
// KindOwnership, absent rows from mutations as KindNotFound. Plain lookups
// return (nil, nil) for absent rows.
type Store interface {
	// InTx runs fn against a store whose operations share one transaction.
	// More-than-one-statement updates (like toggling) run through here so a
	// caller abort cannot leave a torn write.
	InTx(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error)
	UserStats(ctx context.Context, userID uint) (*UserStats, error)

	CreatePost(ctx context.Context, post *models.Post) error
	PostByID(ctx context.Context, id uint) (*models.Post, error)
	PostView(ctx context.Context, postID, viewerID uint) (*PostView, error)
	UpdateOwnedPost(ctx context.Context, postID, ownerID uint, content string) error
	DeleteOwnedPost(ctx context.Context, postID, ownerID uint) error

	InsertLike(ctx context.Context, userID, postID uint) error
	DeleteLike(ctx context.Context, userID, postID uint) (bool, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
	Liked(ctx context.Context, userID, postID uint) (bool, error)
	ListLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateOwnedComment(ctx context.Context, commentID, ownerID uint, content string) error
	DeleteOwnedComment(ctx context.Context, commentID, ownerID uint) error
	ListComments(ctx context.Context, postID uint, limit, offset int) ([]CommentView, error)

	ListFeed(ctx context.Context, viewerID uint, limit, offset int) ([]PostView, error)
	ListUserPosts(ctx context.Context, ownerID, viewerID uint, limit, offset int) ([]PostView, error)
}
