package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/leoverde/pulse/models"
)

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("pulse.dummy.compare"), bcrypt.DefaultCost)

// CredentialService owns registration and password verification. Plaintext
// passwords never leave this type: they are hashed on the way in and only
// ever compared through bcrypt.
type CredentialService struct {
	store Store
}

func NewCredentialService(store Store) *CredentialService {
	return &CredentialService{store: store}
}

// Register validates and creates a new account. Duplicate username and
// duplicate email produce distinguishable conflict errors; an insert-time
// constraint violation (pre-check raced with another registration) is mapped
// to the same user-facing errors as the pre-check.
func (s *CredentialService) Register(ctx context.Context, username, email, password, language string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	fields := map[string]string{}
	if err := ValidateUsername(username); err != nil {
		fields["username"] = MessageKeyOf(err)
	}
	if err := ValidateEmail(email); err != nil {
		fields["email"] = MessageKeyOf(err)
	}
	if err := ValidatePassword(password); err != nil {
		fields["password"] = MessageKeyOf(err)
	}
	if len(fields) > 0 {
		return nil, FieldValidation(fields)
	}

	// Pre-check for friendly errors; the unique constraints remain the
	// final authority below.
	if existing, err := s.store.UserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, Conflict("auth.username_taken", "username")
	}
	if existing, err := s.store.UserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, Conflict("auth.email_taken", "email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Language:     language,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if KindOf(err) == KindConflict {
			return nil, s.classifyDuplicate(ctx, username)
		}
		return nil, err
	}
	return user, nil
}

// classifyDuplicate decides which unique column an insert conflict hit so
// the user sees the same message as the pre-check path.
func (s *CredentialService) classifyDuplicate(ctx context.Context, username string) error {
	if existing, err := s.store.UserByUsername(ctx, username); err == nil && existing != nil {
		return Conflict("auth.username_taken", "username")
	}
	return Conflict("auth.email_taken", "email")
}

// Verify checks a plaintext password against the stored hash for the account
// identified by username or email. Unknown accounts and wrong passwords are
// indistinguishable to the caller.
func (s *CredentialService) Verify(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.store.UserByEmail(ctx, identifier)
	} else {
		user, err = s.store.UserByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a real comparison so an unknown account costs the same as a
		// wrong password.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, Authentication("auth.invalid_credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, Authentication("auth.invalid_credentials")
	}
	return user, nil
}
