package services

import (
	"context"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"github.com/connectly/backend/internal/repositories"
)

// FeedPageSize is the fixed number of posts returned per feed page.
const FeedPageSize = 10

// FeedPage is one page of feed posts plus the cursor for the next page.
// Next is nil when the feed is exhausted.
type FeedPage struct {
	Results []models.Post
	Next    *string
}

// FeedService assembles the reverse-chronological feed for a principal:
// posts by everyone the principal follows, ordered by created_at descending
// with the post ID as a descending tie-break. Feed assembly is a pure read
// and is safe to recompute for polling clients.
type FeedService interface {
	Feed(ctx context.Context, principal *models.Principal, cursor string) (*FeedPage, error)
}

type feedService struct {
	follows repositories.FollowRepository
	posts   repositories.PostRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(followRepo repositories.FollowRepository, postRepo repositories.PostRepository) FeedService {
	return &feedService{follows: followRepo, posts: postRepo}
}

func (s *feedService) Feed(ctx context.Context, principal *models.Principal, cursor string) (*FeedPage, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	after, err := pagination.DecodeParam(cursor)
	if err != nil {
		return nil, err
	}

	authors, err := s.follows.GetFollowingIDs(principal.ID)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		// Following nobody yields an empty feed, not an error.
		return &FeedPage{Results: []models.Post{}}, nil
	}

	posts, hasMore, err := s.posts.ListByAuthors(ctx, authors, after, FeedPageSize)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Results: posts}
	if hasMore && len(posts) > 0 {
		last := posts[len(posts)-1]
		token := pagination.Encode(pagination.Position{
			CreatedAt: last.CreatedAt,
			ID:        last.ID.Hex(),
		})
		page.Next = &token
	}
	return page, nil
}
