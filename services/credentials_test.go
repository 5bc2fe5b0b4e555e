package services_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/leoverde/pulse/services"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewCredentialService(store)

	seedUser(store, "taken", "taken@example.com")

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantKind services.ErrorKind
	}{
		{"success", "alice", "alice@example.com", "password123", 0},
		{"short password", "bob", "bob@example.com", "short", services.KindValidation},
		{"bad email", "bob", "not-an-email", "password123", services.KindValidation},
		{"bad username", "a", "bob@example.com", "password123", services.KindValidation},
		{"duplicate username", "taken", "fresh@example.com", "password123", services.KindConflict},
		{"duplicate email", "fresh", "taken@example.com", "password123", services.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(ctx, tt.username, tt.email, tt.password, "en")
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if user.ID == 0 {
					t.Error("user not persisted")
				}
				if user.PasswordHash == tt.password {
					t.Error("password stored in plaintext")
				}
				if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)) != nil {
					t.Error("stored hash does not verify against password")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := services.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v (%v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestRegisterCollectsAllFieldErrors(t *testing.T) {
	svc := services.NewCredentialService(newMemStore())

	_, err := svc.Register(context.Background(), "a", "bad", "short", "en")
	if err == nil {
		t.Fatal("expected error")
	}
	fields := services.FieldsOf(err)
	for _, f := range []string{"username", "email", "password"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing field error for %q: %v", f, fields)
		}
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewCredentialService(store)

	created, err := svc.Register(ctx, "alice", "alice@example.com", "password123", "en")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name       string
		identifier string
		password   string
		wantOK     bool
	}{
		{"by username", "alice", "password123", true},
		{"by email", "alice@example.com", "password123", true},
		{"wrong password", "alice", "password124", false},
		{"unknown username", "nobody", "password123", false},
		{"unknown email", "nobody@example.com", "password123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Verify(ctx, tt.identifier, tt.password)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if user.ID != created.ID {
					t.Errorf("verified wrong user: %d", user.ID)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if services.KindOf(err) != services.KindAuthentication {
				t.Errorf("wrong kind: %v", err)
			}
			// Unknown account and wrong password must be indistinguishable.
			if services.MessageKeyOf(err) != "auth.invalid_credentials" {
				t.Errorf("message key leaks cause: %v", err)
			}
		})
	}
}
