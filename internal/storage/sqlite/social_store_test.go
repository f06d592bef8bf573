package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/thtnerdboi/arcstep/internal/domain"
	"github.com/thtnerdboi/arcstep/internal/social"
)

func socialUser(id, code string) *social.User {
	return &social.User{
		ID:         id,
		Name:       "User " + id,
		InviteCode: code,
		UpdatedAt:  time.Now(),
	}
}

func TestSocialStore_UpsertAndLookup(t *testing.T) {
	store := NewSocialStore(setupDB(t))

	user := socialUser("u1", "ARC-111111")
	user.WeeklyCompletion = 42
	if err := store.UpsertUser(user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	got, err := store.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.WeeklyCompletion != 42 {
		t.Errorf("weekly completion = %d, want 42", got.WeeklyCompletion)
	}

	byInvite, err := store.FindUserByInvite("ARC-111111")
	if err != nil {
		t.Fatalf("FindUserByInvite() error = %v", err)
	}
	if byInvite.ID != "u1" {
		t.Errorf("invite lookup returned %s", byInvite.ID)
	}

	if _, err := store.GetUser("missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSocialStore_UpsertRefreshes(t *testing.T) {
	store := NewSocialStore(setupDB(t))

	user := socialUser("u1", "ARC-111111")
	if err := store.UpsertUser(user); err != nil {
		t.Fatal(err)
	}
	user.WeeklyCompletion = 80
	user.IsPro = true
	if err := store.UpsertUser(user); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.WeeklyCompletion != 80 || !got.IsPro {
		t.Errorf("upsert did not refresh: %+v", got)
	}
}

func TestSocialStore_FriendRequests(t *testing.T) {
	store := NewSocialStore(setupDB(t))

	if err := store.UpsertUser(socialUser("u1", "ARC-111111")); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertUser(socialUser("u2", "ARC-222222")); err != nil {
		t.Fatal(err)
	}

	req := &social.FriendRequest{
		ID:         "req_1",
		FromUserID: "u1",
		ToUserID:   "u2",
		CreatedAt:  time.Now(),
	}
	if err := store.AddFriendRequest(req); err != nil {
		t.Fatalf("AddFriendRequest() error = %v", err)
	}

	requests, err := store.ListFriendRequests("u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(requests) != 1 || requests[0].FromUserID != "u1" {
		t.Errorf("unexpected requests: %+v", requests)
	}

	if err := store.RemoveFriendRequest("req_1"); err != nil {
		t.Fatal(err)
	}
	requests, err = store.ListFriendRequests("u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(requests) != 0 {
		t.Errorf("request not removed: %+v", requests)
	}
}

func TestSocialStore_Friendships(t *testing.T) {
	store := NewSocialStore(setupDB(t))

	if err := store.UpsertUser(socialUser("u1", "ARC-111111")); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertUser(socialUser("u2", "ARC-222222")); err != nil {
		t.Fatal(err)
	}

	ok, err := store.AreFriends("u1", "u2")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("users should not be friends yet")
	}

	if err := store.AddFriendship("u1", "u2"); err != nil {
		t.Fatalf("AddFriendship() error = %v", err)
	}

	// Friendship is mutual.
	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		ok, err := store.AreFriends(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("expected %s and %s to be friends", pair[0], pair[1])
		}
	}

	friends, err := store.ListFriends("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 1 || friends[0] != "u2" {
		t.Errorf("ListFriends = %v", friends)
	}

	// Adding again is a no-op.
	if err := store.AddFriendship("u1", "u2"); err != nil {
		t.Errorf("re-adding friendship should not error: %v", err)
	}
}
