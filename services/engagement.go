package services

import (
	"context"

	"github.com/leoverde/pulse/models"
)

// Toggle actions reported back to the caller.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// ToggleResult is the outcome of a like toggle. Count is the live like count
// read inside the same transaction as the mutation.
type ToggleResult struct {
	Action string `json:"action"`
	Count  int64  `json:"likes_count"`
}

// CommentPage is an offset-paginated slice of comments for one post.
type CommentPage struct {
	Items   []CommentView `json:"comments"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// LikerPage lists users who liked a post, newest first.
type LikerPage struct {
	Items   []PublicProfile `json:"users"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasMore bool            `json:"has_more"`
}

// EngagementService maintains likes and comments. Like toggling is
// idempotent in end state: under racing duplicate calls the (user, post)
// pair ends with exactly zero or one row and the reported count is truthful.
type EngagementService struct {
	store Store
}

func NewEngagementService(store Store) *EngagementService {
	return &EngagementService{store: store}
}

// ToggleLike flips the like state of (userID, postID). Delete-first: an
// existing row means unlike. Otherwise insert; if the insert loses a race to
// the unique constraint the like already exists, which is the desired end
// state, so it is reported as liked rather than an error. The count is read
// in the same transaction so it can never be stale relative to the toggle.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleResult, error) {
	var result ToggleResult
	err := s.store.InTx(ctx, func(tx Store) error {
		post, err := tx.PostByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return NotFound("posts.not_found")
		}

		removed, err := tx.DeleteLike(ctx, userID, postID)
		if err != nil {
			return err
		}
		if removed {
			result.Action = ActionUnliked
		} else {
			switch err := tx.InsertLike(ctx, userID, postID); {
			case err == nil:
				result.Action = ActionLiked
			case KindOf(err) == KindConflict:
				// Lost the race to a concurrent like; end state is correct.
				result.Action = ActionLiked
			default:
				return err
			}
		}

		count, err := tx.LikeCount(ctx, postID)
		if err != nil {
			return err
		}
		result.Count = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// IsLiked reports whether userID currently likes postID.
func (s *EngagementService) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.store.Liked(ctx, userID, postID)
}

// ListLikers returns users who liked a post, newest like first.
func (s *EngagementService) ListLikers(ctx context.Context, postID uint, limit, offset int) (*LikerPage, error) {
	limit, offset = ClampPage(limit, offset)
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("posts.not_found")
	}
	users, err := s.store.ListLikers(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	page := &LikerPage{Items: make([]PublicProfile, 0, len(users)), Limit: limit, Offset: offset}
	for i := range users {
		page.Items = append(page.Items, publicProfile(&users[i]))
	}
	page.HasMore = len(page.Items) == limit
	return page, nil
}

// CreateComment attaches a comment to an existing post.
func (s *EngagementService) CreateComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	trimmed, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("posts.not_found")
	}
	comment := &models.Comment{PostID: postID, UserID: userID, Content: trimmed}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments ascending by creation time with a
// stable id tie-break. Pagination is offset-based; concurrent inserts may
// skip or duplicate rows across pages.
func (s *EngagementService) ListComments(ctx context.Context, postID uint, limit, offset int) (*CommentPage, error) {
	limit, offset = ClampPage(limit, offset)
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("posts.not_found")
	}
	items, err := s.store.ListComments(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []CommentView{}
	}
	return &CommentPage{Items: items, Limit: limit, Offset: offset, HasMore: len(items) == limit}, nil
}

// UpdateComment edits a comment, author only.
func (s *EngagementService) UpdateComment(ctx context.Context, commentID, userID uint, content string) error {
	trimmed, err := ValidateContent(content)
	if err != nil {
		return err
	}
	return s.store.UpdateOwnedComment(ctx, commentID, userID, trimmed)
}

// DeleteComment removes a comment, author only.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	return s.store.DeleteOwnedComment(ctx, commentID, userID)
}
