package services_test

import (
	"context"
	"testing"

	"github.com/leoverde/pulse/services"
)

func strPtr(s string) *string { return &s }

func TestProfileGet(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewProfileService(store)
	user := seedUser(store, "alice", "alice@example.com")

	byID, err := svc.GetByID(ctx, user.ID)
	if err != nil || byID.Username != "alice" {
		t.Errorf("GetByID = %+v (%v)", byID, err)
	}
	byName, err := svc.GetByUsername(ctx, "alice")
	if err != nil || byName.ID != user.ID {
		t.Errorf("GetByUsername = %+v (%v)", byName, err)
	}

	if _, err := svc.GetByID(ctx, 999); services.KindOf(err) != services.KindNotFound {
		t.Errorf("missing id: %v", err)
	}
	if _, err := svc.GetByUsername(ctx, "nobody"); services.KindOf(err) != services.KindNotFound {
		t.Errorf("missing username: %v", err)
	}
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewProfileService(store)
	user := seedUser(store, "alice", "alice@example.com")
	seedUser(store, "taken", "taken@example.com")

	updated, err := svc.Update(ctx, user.ID, services.ProfileUpdate{
		Bio:      strPtr("  hi there  "),
		Username: strPtr("alice2"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != "hi there" || updated.Username != "alice2" {
		t.Errorf("update result = %+v", updated)
	}

	if _, err := svc.Update(ctx, user.ID, services.ProfileUpdate{Username: strPtr("taken")}); services.KindOf(err) != services.KindConflict {
		t.Errorf("taken username: want conflict, got %v", err)
	}
	if _, err := svc.Update(ctx, user.ID, services.ProfileUpdate{Email: strPtr("taken@example.com")}); services.KindOf(err) != services.KindConflict {
		t.Errorf("taken email: want conflict, got %v", err)
	}
	if _, err := svc.Update(ctx, user.ID, services.ProfileUpdate{Username: strPtr("a")}); services.KindOf(err) != services.KindValidation {
		t.Errorf("bad username: want validation, got %v", err)
	}
	if _, err := svc.Update(ctx, user.ID, services.ProfileUpdate{}); services.KindOf(err) != services.KindValidation {
		t.Errorf("no-op update: want validation, got %v", err)
	}
	if _, err := svc.Update(ctx, 999, services.ProfileUpdate{Bio: strPtr("x")}); services.KindOf(err) != services.KindNotFound {
		t.Errorf("missing user: want not found, got %v", err)
	}

	// Re-submitting the current username is not a conflict with yourself,
	// but alone it changes nothing.
	if _, err := svc.Update(ctx, user.ID, services.ProfileUpdate{Username: strPtr("alice2")}); services.KindOf(err) != services.KindValidation {
		t.Errorf("same-username update: want nothing-to-update, got %v", err)
	}
}

func TestProfileStats(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewProfileService(store)
	engagement := services.NewEngagementService(store)
	alice := seedUser(store, "alice", "alice@example.com")
	bob := seedUser(store, "bob", "bob@example.com")
	post := seedPost(store, alice.ID, "hello")

	if _, err := engagement.ToggleLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := engagement.CreateComment(ctx, bob.ID, post.ID, "hey"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	stats, err := svc.Stats(ctx, alice.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PostCount != 1 || stats.LikesReceived != 1 || stats.CommentCount != 0 {
		t.Errorf("alice stats = %+v", stats)
	}

	bobStats, err := svc.Stats(ctx, bob.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if bobStats.CommentCount != 1 {
		t.Errorf("bob stats = %+v", bobStats)
	}

	if _, err := svc.Stats(ctx, 999); services.KindOf(err) != services.KindNotFound {
		t.Errorf("missing user: %v", err)
	}
}

func TestProfileSearch(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewProfileService(store)
	seedUser(store, "alice", "alice@example.com")
	seedUser(store, "alicia", "alicia@example.com")
	seedUser(store, "bob", "bob@example.com")

	page, err := svc.Search(ctx, "ali", 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("got %d results, want 2", len(page.Items))
	}

	if _, err := svc.Search(ctx, "   ", 10, 0); services.KindOf(err) != services.KindValidation {
		t.Errorf("blank query: want validation, got %v", err)
	}
}
