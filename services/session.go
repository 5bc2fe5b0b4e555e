package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const csrfTokenBytes = 32

// SessionData is everything bound to one client session. The password hash
// is deliberately not representable here.
type SessionData struct {
	UserID    uint   `json:"user_id,omitempty"`
	CSRFToken string `json:"csrf_token,omitempty"`
	Language  string `json:"language,omitempty"`
}

// Authenticated reports whether the session is bound to a user.
func (d *SessionData) Authenticated() bool {
	return d != nil && d.UserID != 0
}

// SessionStore is the external session storage keyed by an opaque id.
// Read returns (nil, nil) for unknown or expired ids.
type SessionStore interface {
	Read(ctx context.Context, id string) (*SessionData, error)
	Write(ctx context.Context, id string, data *SessionData) error
	Destroy(ctx context.Context, id string) error
}

// SessionManager drives the Anonymous/Authenticated session state machine
// over an external SessionStore. It is passed explicitly to every operation
// that needs identity or CSRF state.
type SessionManager struct {
	store SessionStore
}

func NewSessionManager(store SessionStore) *SessionManager {
	return &SessionManager{store: store}
}

// Load resolves a session id to its data, nil when the id is unknown.
func (m *SessionManager) Load(ctx context.Context, id string) (*SessionData, error) {
	if id == "" {
		return nil, nil
	}
	data, err := m.store.Read(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	return data, nil
}

// Begin creates a fresh anonymous session.
func (m *SessionManager) Begin(ctx context.Context, language string) (string, *SessionData, error) {
	id := uuid.NewString()
	data := &SessionData{Language: language}
	if err := m.store.Write(ctx, id, data); err != nil {
		return "", nil, Internal(err)
	}
	return id, data, nil
}

// Login binds a session to a user. The previous session id, if any, is
// destroyed and a new one issued so a pre-login id can never be replayed
// into an authenticated session.
func (m *SessionManager) Login(ctx context.Context, previousID string, userID uint, language string) (string, *SessionData, error) {
	if previousID != "" {
		if err := m.store.Destroy(ctx, previousID); err != nil {
			return "", nil, Internal(err)
		}
	}
	id := uuid.NewString()
	data := &SessionData{UserID: userID, Language: language}
	if err := m.store.Write(ctx, id, data); err != nil {
		return "", nil, Internal(err)
	}
	return id, data, nil
}

// Logout invalidates the session id entirely, not just the user binding.
func (m *SessionManager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Destroy(ctx, id); err != nil {
		return Internal(err)
	}
	return nil
}

// EnsureCSRF returns the session's CSRF token, generating and persisting a
// high-entropy one on first need.
func (m *SessionManager) EnsureCSRF(ctx context.Context, id string, data *SessionData) (string, error) {
	if data == nil {
		return "", Authentication("auth.session_required")
	}
	if data.CSRFToken != "" {
		return data.CSRFToken, nil
	}
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", Internal(fmt.Errorf("csrf token generation: %w", err))
	}
	data.CSRFToken = hex.EncodeToString(buf)
	if err := m.store.Write(ctx, id, data); err != nil {
		return "", Internal(err)
	}
	return data.CSRFToken, nil
}

// VerifyCSRF compares a presented token against the session's in constant
// time. A session without a token never verifies.
func (m *SessionManager) VerifyCSRF(data *SessionData, token string) bool {
	if data == nil || data.CSRFToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(data.CSRFToken), []byte(token)) == 1
}

// SetLanguage updates the session's display language in place.
func (m *SessionManager) SetLanguage(ctx context.Context, id string, data *SessionData, language string) error {
	if data == nil {
		return Authentication("auth.session_required")
	}
	data.Language = language
	if err := m.store.Write(ctx, id, data); err != nil {
		return Internal(err)
	}
	return nil
}
