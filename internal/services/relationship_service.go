package services

import (
	"errors"
	"strconv"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"github.com/connectly/backend/internal/repositories"
)

// FollowStatus reports the outcome of a follow/unfollow mutation.
type FollowStatus string

const (
	FollowCreated    FollowStatus = "created"
	AlreadyFollowing FollowStatus = "already_following"
	Unfollowed       FollowStatus = "unfollowed"
	NotFollowing     FollowStatus = "not_following"
)

// FollowResult carries the mutation outcome and, for a newly created follow,
// the stored edge.
type FollowResult struct {
	Status FollowStatus
	Edge   *models.Follow
}

// EdgePage is one page of follow edges plus the cursor for the next page.
// Next is nil when the listing is exhausted.
type EdgePage struct {
	Results []models.Follow
	Next    *string
}

// RelationshipService orchestrates follow/unfollow state transitions and the
// follower/following listings. It is the only writer of the follow graph;
// each principal may only list their own edges through it.
type RelationshipService interface {
	Follow(principal *models.Principal, targetID uint) (*FollowResult, error)
	Unfollow(principal *models.Principal, targetID uint) (*FollowResult, error)
	Followers(principal *models.Principal, cursor string) (*EdgePage, error)
	Following(principal *models.Principal, cursor string) (*EdgePage, error)
}

// relationshipPageSize is the fixed number of edges per listing page.
const relationshipPageSize = 10

type relationshipService struct {
	follows repositories.FollowRepository
	users   repositories.UserRepository
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) RelationshipService {
	return &relationshipService{follows: followRepo, users: userRepo}
}

func (s *relationshipService) Follow(principal *models.Principal, targetID uint) (*FollowResult, error) {
	if err := s.validateTarget(principal, targetID); err != nil {
		return nil, err
	}

	edge, created, err := s.follows.CreateFollow(principal.ID, targetID)
	if err != nil {
		// The store rejects self-referential edges itself; surface that as
		// the service-level rule it is.
		if errors.Is(err, repositories.ErrSelfFollow) {
			return nil, ErrSelfFollow
		}
		return nil, err
	}
	if !created {
		// Repeated follow attempts are not errors; report the existing edge.
		return &FollowResult{Status: AlreadyFollowing, Edge: edge}, nil
	}
	return &FollowResult{Status: FollowCreated, Edge: edge}, nil
}

func (s *relationshipService) Unfollow(principal *models.Principal, targetID uint) (*FollowResult, error) {
	if err := s.validateTarget(principal, targetID); err != nil {
		return nil, err
	}

	deleted, err := s.follows.DeleteFollow(principal.ID, targetID)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return &FollowResult{Status: NotFollowing}, nil
	}
	return &FollowResult{Status: Unfollowed}, nil
}

// validateTarget checks the shared preconditions of both mutations: an
// authenticated principal and an existing target.
func (s *relationshipService) validateTarget(principal *models.Principal, targetID uint) error {
	if !principal.IsAuthenticated() {
		return ErrUnauthenticated
	}
	exists, err := s.users.UserExists(targetID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTargetNotFound
	}
	return nil
}

func (s *relationshipService) Followers(principal *models.Principal, cursor string) (*EdgePage, error) {
	return s.listEdges(principal, cursor, s.follows.ListFollowers)
}

func (s *relationshipService) Following(principal *models.Principal, cursor string) (*EdgePage, error) {
	return s.listEdges(principal, cursor, s.follows.ListFollowing)
}

func (s *relationshipService) listEdges(
	principal *models.Principal,
	cursor string,
	list func(uint, *pagination.Position, int) ([]models.Follow, bool, error),
) (*EdgePage, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	after, err := pagination.DecodeParam(cursor)
	if err != nil {
		return nil, err
	}

	edges, hasMore, err := list(principal.ID, after, relationshipPageSize)
	if err != nil {
		return nil, err
	}

	page := &EdgePage{Results: edges}
	if hasMore && len(edges) > 0 {
		last := edges[len(edges)-1]
		token := pagination.Encode(pagination.Position{
			CreatedAt: last.CreatedAt,
			ID:        strconv.FormatUint(uint64(last.ID), 10),
		})
		page.Next = &token
	}
	return page, nil
}
