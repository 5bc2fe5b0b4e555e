package services

import (
	"context"
	"strings"
	"time"

	"github.com/leoverde/pulse/models"
)

// PublicProfile is the outward shape of a user. The password hash is not
// representable here.
type PublicProfile struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	Avatar         string    `json:"avatar"`
	Language       string    `json:"language"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProfilePage is an offset-paginated user search result.
type ProfilePage struct {
	Items   []PublicProfile `json:"users"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasMore bool            `json:"has_more"`
}

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Bio      *string
	Avatar   *string
	Username *string
	Email    *string
	Language *string
}

// ProfileService reads and edits user profiles.
type ProfileService struct {
	store Store
}

func NewProfileService(store Store) *ProfileService {
	return &ProfileService{store: store}
}

func publicProfile(u *models.User) PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Bio:            u.Bio,
		Avatar:         u.Avatar,
		Language:       u.Language,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
	}
}

// GetByID returns the public profile for a user id.
func (s *ProfileService) GetByID(ctx context.Context, userID uint) (*PublicProfile, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("profile.user_not_found")
	}
	p := publicProfile(user)
	return &p, nil
}

// GetByUsername returns the public profile for a username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("profile.user_not_found")
	}
	p := publicProfile(user)
	return &p, nil
}

// Update edits the caller's own profile. Username and email changes re-run
// the registration validation and uniqueness rules.
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileUpdate) (*PublicProfile, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("profile.user_not_found")
	}

	changed := false
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != user.Username {
			if err := ValidateUsername(username); err != nil {
				return nil, err
			}
			if existing, err := s.store.UserByUsername(ctx, username); err != nil {
				return nil, err
			} else if existing != nil && existing.ID != userID {
				return nil, Conflict("auth.username_taken", "username")
			}
			user.Username = username
			changed = true
		}
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			if err := ValidateEmail(email); err != nil {
				return nil, err
			}
			if existing, err := s.store.UserByEmail(ctx, email); err != nil {
				return nil, err
			} else if existing != nil && existing.ID != userID {
				return nil, Conflict("auth.email_taken", "email")
			}
			user.Email = email
			changed = true
		}
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
		changed = true
	}
	if in.Avatar != nil {
		user.Avatar = strings.TrimSpace(*in.Avatar)
		changed = true
	}
	if in.Language != nil {
		user.Language = *in.Language
		changed = true
	}
	if !changed {
		return nil, Validation("profile.nothing_to_update")
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if KindOf(err) == KindConflict {
			return nil, Conflict("auth.username_taken", "username")
		}
		return nil, err
	}
	p := publicProfile(user)
	return &p, nil
}

// Stats aggregates activity counters for a profile page.
func (s *ProfileService) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("profile.user_not_found")
	}
	return s.store.UserStats(ctx, userID)
}

// Search finds users by username substring.
func (s *ProfileService) Search(ctx context.Context, query string, limit, offset int) (*ProfilePage, error) {
	limit, offset = ClampPage(limit, offset)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, Validation("validation.empty_query")
	}
	users, err := s.store.SearchUsers(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	page := &ProfilePage{Items: make([]PublicProfile, 0, len(users)), Limit: limit, Offset: offset}
	for i := range users {
		page.Items = append(page.Items, publicProfile(&users[i]))
	}
	page.HasMore = len(page.Items) == limit
	return page, nil
}
