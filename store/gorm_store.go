// Package store provides the MySQL-backed persistence layer and the
// Redis-backed session storage behind the service interfaces.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leoverde/pulse/models"
	"github.com/leoverde/pulse/services"
)

// GormStore implements services.Store on a gorm MySQL connection. Driver
// errors never escape: they are mapped into the service error taxonomy here.
type GormStore struct {
	db *gorm.DB
}

var _ services.Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InTx runs fn against a store bound to one database transaction. gorm
// rolls back when fn errors or the caller's context is canceled, so a
// multi-statement update can never be left half-applied.
func (s *GormStore) InTx(ctx context.Context, fn func(services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func internal(op string, err error) error {
	return services.Internal(fmt.Errorf("%s: %w", op, err))
}

// --- users ---

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.Conflict("auth.username_taken", "")
		}
		return internal("create user", err)
	}
	return nil
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("user by id", err)
	}
	return &user, nil
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("user by username", err)
	}
	return &user, nil
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("user by email", err)
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.Conflict("auth.username_taken", "")
		}
		return internal("update user", err)
	}
	return nil
}

func (s *GormStore) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("username LIKE ?", "%"+query+"%").
		Order("username ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, internal("search users", err)
	}
	return users, nil
}

func (s *GormStore) UserStats(ctx context.Context, userID uint) (*services.UserStats, error) {
	var stats services.UserStats
	err := s.db.WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM posts WHERE user_id = ?) AS post_count,
		(SELECT COUNT(*) FROM likes WHERE post_id IN (SELECT id FROM posts WHERE user_id = ?)) AS likes_received,
		(SELECT COUNT(*) FROM comments WHERE user_id = ?) AS comment_count`,
		userID, userID, userID).Scan(&stats).Error
	if err != nil {
		return nil, internal("user stats", err)
	}
	return &stats, nil
}

// --- posts ---

// postViewSelect computes like/comment counts live and the viewer's like
// flag via an EXISTS probe; an anonymous viewer (0) never matches a row.
const postViewSelect = `posts.id, posts.user_id, users.username, users.avatar,
	posts.content, posts.created_at, posts.updated_at,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count,
	EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked`

func (s *GormStore) postViews(ctx context.Context, viewerID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(postViewSelect, viewerID).
		Joins("JOIN users ON users.id = posts.user_id")
}

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return internal("create post", err)
	}
	return nil
}

func (s *GormStore) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("post by id", err)
	}
	return &post, nil
}

func (s *GormStore) PostView(ctx context.Context, postID, viewerID uint) (*services.PostView, error) {
	var views []services.PostView
	err := s.postViews(ctx, viewerID).Where("posts.id = ?", postID).Limit(1).Scan(&views).Error
	if err != nil {
		return nil, internal("post view", err)
	}
	if len(views) == 0 {
		return nil, nil
	}
	return &views[0], nil
}

// UpdateOwnedPost evaluates the ownership gate and the mutation in a single
// statement so a concurrent delete between check and act is impossible. A
// zero row count is disambiguated into not-found vs not-owner afterwards;
// by then the answer is only advisory for the error message.
func (s *GormStore) UpdateOwnedPost(ctx context.Context, postID, ownerID uint, content string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND user_id = ?", postID, ownerID).
		Update("content", content)
	if res.Error != nil {
		return internal("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.classifyMissedPost(ctx, postID)
	}
	return nil
}

// DeleteOwnedPost removes a post and cascades its likes and comments inside
// one transaction.
func (s *GormStore) DeleteOwnedPost(ctx context.Context, postID, ownerID uint) error {
	return s.InTx(ctx, func(txs services.Store) error {
		tx := txs.(*GormStore).db.WithContext(ctx)

		res := tx.Where("id = ? AND user_id = ?", postID, ownerID).Delete(&models.Post{})
		if res.Error != nil {
			return internal("delete post", res.Error)
		}
		if res.RowsAffected == 0 {
			return s.classifyMissedPost(ctx, postID)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return internal("delete post likes", err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return internal("delete post comments", err)
		}
		return nil
	})
}

func (s *GormStore) classifyMissedPost(ctx context.Context, postID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return internal("classify post miss", err)
	}
	if count == 0 {
		return services.NotFound("posts.not_found")
	}
	return services.Ownership("auth.forbidden")
}

// --- likes ---

func (s *GormStore) InsertLike(ctx context.Context, userID, postID uint) error {
	like := models.Like{UserID: userID, PostID: postID}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.Conflict("posts.already_liked", "")
		}
		return internal("insert like", err)
	}
	return nil
}

func (s *GormStore) DeleteLike(ctx context.Context, userID, postID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, internal("delete like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, internal("like count", err)
	}
	return count, nil
}

func (s *GormStore) Liked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, internal("liked", err)
	}
	return count > 0, nil
}

func (s *GormStore) ListLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC, likes.id DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, internal("list likers", err)
	}
	return users, nil
}

// --- comments ---

const commentViewSelect = `comments.id, comments.post_id, comments.user_id,
	users.username, users.avatar, comments.content, comments.created_at, comments.updated_at`

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return internal("create comment", err)
	}
	return nil
}

func (s *GormStore) CommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal("comment by id", err)
	}
	return &comment, nil
}

func (s *GormStore) UpdateOwnedComment(ctx context.Context, commentID, ownerID uint, content string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", commentID, ownerID).
		Update("content", content)
	if res.Error != nil {
		return internal("update comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.classifyMissedComment(ctx, commentID)
	}
	return nil
}

func (s *GormStore) DeleteOwnedComment(ctx context.Context, commentID, ownerID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", commentID, ownerID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return internal("delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.classifyMissedComment(ctx, commentID)
	}
	return nil
}

func (s *GormStore) classifyMissedComment(ctx context.Context, commentID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).Count(&count).Error; err != nil {
		return internal("classify comment miss", err)
	}
	if count == 0 {
		return services.NotFound("comments.not_found")
	}
	return services.Ownership("auth.forbidden")
}

func (s *GormStore) ListComments(ctx context.Context, postID uint, limit, offset int) ([]services.CommentView, error) {
	var views []services.CommentView
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select(commentViewSelect).
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Limit(limit).Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, internal("list comments", err)
	}
	return views, nil
}

// --- feed ---

func (s *GormStore) ListFeed(ctx context.Context, viewerID uint, limit, offset int) ([]services.PostView, error) {
	var views []services.PostView
	err := s.postViews(ctx, viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, internal("list feed", err)
	}
	return views, nil
}

func (s *GormStore) ListUserPosts(ctx context.Context, ownerID, viewerID uint, limit, offset int) ([]services.PostView, error) {
	var views []services.PostView
	err := s.postViews(ctx, viewerID).
		Where("posts.user_id = ?", ownerID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, internal("list user posts", err)
	}
	return views, nil
}
