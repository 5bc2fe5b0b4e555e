package services

import "context"

// FeedPage is an offset-paginated slice of viewer-personalized post views.
// HasMore is a heuristic: a full page suggests another one exists.
type FeedPage struct {
	Items   []PostView `json:"posts"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasMore bool       `json:"has_more"`
}

// FeedService composes paginated reverse-chronological post views. Counts
// and the viewer's like flag are read live at call time; successive calls
// may observe different state, which is accepted.
type FeedService struct {
	store Store
}

func NewFeedService(store Store) *FeedService {
	return &FeedService{store: store}
}

// GetFeed returns posts across all users, newest first, annotated for the
// viewer. Absence of a like row reads as not liked.
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint, limit, offset int) (*FeedPage, error) {
	limit, offset = ClampPage(limit, offset)
	items, err := s.store.ListFeed(ctx, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return newFeedPage(items, limit, offset), nil
}

// GetUserPosts is the feed filtered to one author, used for profile views.
// The viewer may differ from the owner and may be anonymous (0).
func (s *FeedService) GetUserPosts(ctx context.Context, ownerID, viewerID uint, limit, offset int) (*FeedPage, error) {
	limit, offset = ClampPage(limit, offset)
	items, err := s.store.ListUserPosts(ctx, ownerID, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return newFeedPage(items, limit, offset), nil
}

func newFeedPage(items []PostView, limit, offset int) *FeedPage {
	if items == nil {
		items = []PostView{}
	}
	return &FeedPage{Items: items, Limit: limit, Offset: offset, HasMore: len(items) == limit}
}
