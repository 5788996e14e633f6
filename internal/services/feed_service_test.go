package services

import (
	"context"
	"testing"
	"time"

	"github.com/rahat09/peerly/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func post(author uint, title string, createdAt time.Time) models.Post {
	return models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  author,
		Title:     title,
		Content:   "some content long enough to matter",
		CreatedAt: createdAt,
	}
}

func TestFeedMergesSelfAndFriends(t *testing.T) {
	users := newMemoryUserRepo(
		models.User{ID: alice, Username: "alice", Email: "alice@example.com"},
		models.User{ID: bob, Username: "bob", Email: "bob@example.com"},
		models.User{ID: carol, Username: "carol", Email: "carol@example.com"},
	)
	store := newMemoryRelationshipRepo(users)
	friendships := NewFriendshipService(store, users)

	_, err := friendships.SendRequest(alice, bob)
	require.NoError(t, err)
	_, err = friendships.AcceptRequest(alice, bob)
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := &memoryPostRepo{posts: []models.Post{
		post(alice, "p1 by alice", base),
		post(bob, "p2 by bob", base.Add(time.Hour)),
		post(carol, "invisible", base.Add(2*time.Hour)), // carol is not a friend
	}}

	feed := NewFeedService(store, users, posts)
	got, err := feed.FeedFor(context.Background(), alice)
	require.NoError(t, err)

	// Newest first; carol's post excluded.
	require.Len(t, got, 2)
	assert.Equal(t, "p2 by bob", got[0].Title)
	assert.Equal(t, "p1 by alice", got[1].Title)

	// Authors are decorated with summaries and derived avatars.
	assert.Equal(t, "bob", got[0].Author.Username)
	assert.NotEmpty(t, got[0].Author.Avatar)
	assert.Equal(t, "alice", got[1].Author.Username)
}

func TestFeedOwnPostsOnly(t *testing.T) {
	users := newMemoryUserRepo(
		models.User{ID: alice, Username: "alice", Email: "alice@example.com"},
		models.User{ID: bob, Username: "bob", Email: "bob@example.com"},
	)
	store := newMemoryRelationshipRepo(users)

	base := time.Now()
	posts := &memoryPostRepo{posts: []models.Post{
		post(alice, "mine", base),
		post(bob, "not mine", base.Add(time.Minute)),
	}}

	feed := NewFeedService(store, users, posts)
	got, err := feed.FeedFor(context.Background(), alice)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].Title)
}

func TestFeedStableOnEqualTimestamps(t *testing.T) {
	users := newMemoryUserRepo(
		models.User{ID: alice, Username: "alice", Email: "alice@example.com"},
	)
	store := newMemoryRelationshipRepo(users)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := post(alice, "first", at)
	second := post(alice, "second", at)
	posts := &memoryPostRepo{posts: []models.Post{first, second}}

	feed := NewFeedService(store, users, posts)
	got, err := feed.FeedFor(context.Background(), alice)
	require.NoError(t, err)

	// Equal timestamps keep insertion order.
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
}

func TestFeedEmptyGraph(t *testing.T) {
	users := newMemoryUserRepo(
		models.User{ID: alice, Username: "alice", Email: "alice@example.com"},
	)
	store := newMemoryRelationshipRepo(users)
	feed := NewFeedService(store, users, &memoryPostRepo{})

	got, err := feed.FeedFor(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, got)
}
