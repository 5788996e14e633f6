package services

import (
	"context"
	"sort"

	"github.com/rahat09/peerly/backend/internal/models"
	"github.com/rahat09/peerly/backend/internal/repositories"
	"github.com/rahat09/peerly/backend/pkg/gravatar"
)

// FeedService computes a user's visible content: posts by the user and by
// every friend, merged newest first. Fan-out happens at read time; nothing
// is precomputed.
type FeedService interface {
	FeedFor(ctx context.Context, userID uint) ([]models.FeedPost, error)
}

type feedService struct {
	relationships repositories.RelationshipRepository
	users         repositories.UserRepository
	posts         repositories.PostRepository
}

// NewFeedService creates a FeedService over the graph and content stores
func NewFeedService(relationshipRepo repositories.RelationshipRepository, userRepo repositories.UserRepository, postRepo repositories.PostRepository) FeedService {
	return &feedService{
		relationships: relationshipRepo,
		users:         userRepo,
		posts:         postRepo,
	}
}

// FeedFor reads the friend set, pulls every post authored by the user or a
// friend from the content store, and returns them sorted by creation time
// descending. The stable sort keeps arrival order for equal timestamps.
func (s *feedService) FeedFor(ctx context.Context, userID uint) ([]models.FeedPost, error) {
	friendIDs, err := s.relationships.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(friendIDs, userID)

	posts, err := s.posts.GetPostsByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	authors, err := s.users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	authorMap := make(map[uint]models.UserSummary, len(authors))
	for _, u := range authors {
		authorMap[u.ID] = u.ToSummary(gravatar.URL(u.Email))
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	feed := make([]models.FeedPost, len(posts))
	for i, p := range posts {
		feed[i] = models.FeedPost{
			Post:   p,
			Author: authorMap[p.AuthorID],
		}
	}
	return feed, nil
}
