package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leoverde/pulse/models"
	"github.com/leoverde/pulse/services"
)

// memStore implements services.Store on maps for service tests.
type memStore struct {
	mu       sync.Mutex
	users    map[uint]*models.User
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	likes    map[uint]*models.Like
	nextID   uint

	// insertLikeErr, when set, is returned by the next InsertLike call and
	// then cleared. Used to simulate losing a unique-constraint race.
	insertLikeErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uint]*models.User),
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint]*models.Comment),
		likes:    make(map[uint]*models.Like),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) InTx(_ context.Context, fn func(services.Store) error) error {
	return fn(m)
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return services.Conflict("auth.username_taken", "")
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) UserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return services.Conflict("auth.username_taken", "")
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) SearchUsers(_ context.Context, query string, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return pageSlice(matched, limit, offset), nil
}

func (m *memStore) UserStats(_ context.Context, userID uint) (*services.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &services.UserStats{}
	for _, p := range m.posts {
		if p.UserID == userID {
			stats.PostCount++
			for _, l := range m.likes {
				if l.PostID == p.ID {
					stats.LikesReceived++
				}
			}
		}
	}
	for _, c := range m.comments {
		if c.UserID == userID {
			stats.CommentCount++
		}
	}
	return stats, nil
}

func (m *memStore) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = m.id()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memStore) PostByID(_ context.Context, id uint) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) view(p *models.Post, viewerID uint) services.PostView {
	author := m.users[p.UserID]
	v := services.PostView{
		ID:        p.ID,
		UserID:    p.UserID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if author != nil {
		v.Username = author.Username
		v.Avatar = author.Avatar
	}
	for _, l := range m.likes {
		if l.PostID == p.ID {
			v.LikeCount++
			if l.UserID == viewerID {
				v.IsLiked = true
			}
		}
	}
	for _, c := range m.comments {
		if c.PostID == p.ID {
			v.CommentCount++
		}
	}
	return v
}

func (m *memStore) PostView(_ context.Context, postID, viewerID uint) (*services.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}
	v := m.view(p, viewerID)
	return &v, nil
}

func (m *memStore) UpdateOwnedPost(_ context.Context, postID, ownerID uint, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return services.NotFound("posts.not_found")
	}
	if p.UserID != ownerID {
		return services.Ownership("posts.not_owner")
	}
	p.Content = content
	p.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) DeleteOwnedPost(_ context.Context, postID, ownerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return services.NotFound("posts.not_found")
	}
	if p.UserID != ownerID {
		return services.Ownership("posts.not_owner")
	}
	delete(m.posts, postID)
	for id, l := range m.likes {
		if l.PostID == postID {
			delete(m.likes, id)
		}
	}
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

func (m *memStore) InsertLike(_ context.Context, userID, postID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertLikeErr; err != nil {
		m.insertLikeErr = nil
		return err
	}
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			return services.Conflict("errors.internal", "")
		}
	}
	id := m.id()
	m.likes[id] = &models.Like{ID: id, UserID: userID, PostID: postID, CreatedAt: time.Now()}
	return nil
}

func (m *memStore) DeleteLike(_ context.Context, userID, postID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			delete(m.likes, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LikeCount(_ context.Context, postID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Liked(_ context.Context, userID, postID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListLikers(_ context.Context, postID uint, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*models.Like
	for _, l := range m.likes {
		if l.PostID == postID {
			rows = append(rows, l)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	var out []models.User
	for _, l := range rows {
		if u, ok := m.users[l.UserID]; ok {
			out = append(out, *u)
		}
	}
	return pageSlice(out, limit, offset), nil
}

func (m *memStore) CreateComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.id()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *memStore) CommentByID(_ context.Context, id uint) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) UpdateOwnedComment(_ context.Context, commentID, ownerID uint, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok {
		return services.NotFound("comments.not_found")
	}
	if c.UserID != ownerID {
		return services.Ownership("comments.not_owner")
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) DeleteOwnedComment(_ context.Context, commentID, ownerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok {
		return services.NotFound("comments.not_found")
	}
	if c.UserID != ownerID {
		return services.Ownership("comments.not_owner")
	}
	delete(m.comments, commentID)
	return nil
}

func (m *memStore) ListComments(_ context.Context, postID uint, limit, offset int) ([]services.CommentView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	var out []services.CommentView
	for _, c := range rows {
		v := services.CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			UserID:    c.UserID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
		if u, ok := m.users[c.UserID]; ok {
			v.Username = u.Username
			v.Avatar = u.Avatar
		}
		out = append(out, v)
	}
	return pageSlice(out, limit, offset), nil
}

func (m *memStore) ListFeed(_ context.Context, viewerID uint, limit, offset int) ([]services.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*models.Post
	for _, p := range m.posts {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	var out []services.PostView
	for _, p := range rows {
		out = append(out, m.view(p, viewerID))
	}
	return pageSlice(out, limit, offset), nil
}

func (m *memStore) ListUserPosts(_ context.Context, ownerID, viewerID uint, limit, offset int) ([]services.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*models.Post
	for _, p := range m.posts {
		if p.UserID == ownerID {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	var out []services.PostView
	for _, p := range rows {
		out = append(out, m.view(p, viewerID))
	}
	return pageSlice(out, limit, offset), nil
}

func pageSlice[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// memSessions implements services.SessionStore in memory.
type memSessions struct {
	mu   sync.Mutex
	data map[string]*services.SessionData
}

func newMemSessions() *memSessions {
	return &memSessions{data: make(map[string]*services.SessionData)}
}

func (m *memSessions) Read(_ context.Context, id string) (*services.SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.data[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *memSessions) Write(_ context.Context, id string, data *services.SessionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *data
	m.data[id] = &cp
	return nil
}

func (m *memSessions) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

var _ services.Store = (*memStore)(nil)
var _ services.SessionStore = (*memSessions)(nil)

// seedUser registers a fixture user directly through the store.
func seedUser(m *memStore, username, email string) *models.User {
	u := &models.User{Username: username, Email: email, PasswordHash: "x", Language: "en"}
	if err := m.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

// seedPost creates a fixture post directly through the store.
func seedPost(m *memStore, userID uint, content string) *models.Post {
	p := &models.Post{UserID: userID, Content: content}
	if err := m.CreatePost(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}
