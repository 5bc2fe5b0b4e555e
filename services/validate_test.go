package services_test

import (
	"testing"

	"github.com/leoverde/pulse/services"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with separators", "al_ice-99", false},
		{"too short", "ab", true},
		{"too long", string(make([]byte, 101)), true},
		{"space", "al ice", true},
		{"unicode", "ألés", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "a@example.com", false},
		{"missing at", "aexample.com", true},
		{"display name", "Alice <a@example.com>", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := services.ValidatePassword("1234567"); err == nil {
		t.Error("expected error for 7-char password")
	}
	if err := services.ValidatePassword("12345678"); err != nil {
		t.Errorf("unexpected error for 8-char password: %v", err)
	}
}

func TestValidateContent(t *testing.T) {
	got, err := services.ValidateContent("  hello  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want trimmed %q", got, "hello")
	}

	if _, err := services.ValidateContent("   \n\t "); err == nil {
		t.Error("expected error for whitespace-only content")
	} else if services.KindOf(err) != services.KindValidation {
		t.Errorf("wrong kind: %v", err)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                 string
		limit, offset        int
		wantLimit, wantOfs   int
	}{
		{"in range", 20, 40, 20, 40},
		{"zero limit", 0, 0, 1, 0},
		{"negative limit", -5, 0, 1, 0},
		{"over max", 500, 0, 100, 0},
		{"negative offset", 10, -1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := services.ClampPage(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOfs {
				t.Errorf("ClampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOfs)
			}
		})
	}
}
