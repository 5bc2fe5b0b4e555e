package services

import (
	"context"

	"github.com/leoverde/pulse/models"
)

// PostService is the create/read/update/delete surface for posts with
// ownership enforcement. Ownership checks run atomically with the mutation
// in the store so a delete racing the check cannot slip through.
type PostService struct {
	store Store
}

func NewPostService(store Store) *PostService {
	return &PostService{store: store}
}

// Create persists a new post for userID.
func (s *PostService) Create(ctx context.Context, userID uint, content string) (*models.Post, error) {
	trimmed, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	post := &models.Post{UserID: userID, Content: trimmed}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetByID returns the viewer-personalized read view of one post. viewerID 0
// means anonymous: IsLiked is always false then.
func (s *PostService) GetByID(ctx context.Context, postID, viewerID uint) (*PostView, error) {
	view, err := s.store.PostView(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, NotFound("posts.not_found")
	}
	return view, nil
}

// Update replaces a post's content, owner only.
func (s *PostService) Update(ctx context.Context, postID, userID uint, content string) (*PostView, error) {
	trimmed, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateOwnedPost(ctx, postID, userID, trimmed); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, postID, userID)
}

// Delete removes a post, owner only. Likes and comments of the post go with
// it in the same transaction.
func (s *PostService) Delete(ctx context.Context, postID, userID uint) error {
	return s.store.DeleteOwnedPost(ctx, postID, userID)
}
