package repositories

import (
	"errors"
	"strconv"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSelfFollow is returned when an edge would point from a user to itself.
// The graph never stores self-referential edges, regardless of the caller.
var ErrSelfFollow = errors.New("self-referential follow edge")

// FollowRepository defines the interface for follow-graph data operations.
// Uniqueness of the (follower_id, following_id) pair is enforced at the
// storage layer, so concurrent follow attempts for the same pair always
// resolve to exactly one stored edge.
type FollowRepository interface {
	// CreateFollow inserts the edge if absent. The bool reports whether a new
	// edge was created; when false the previously stored edge is returned.
	// Self-referential edges are rejected with ErrSelfFollow.
	CreateFollow(followerID, followingID uint) (*models.Follow, bool, error)
	// DeleteFollow removes the edge and reports how many rows were deleted.
	// Deleting a missing edge returns 0, not an error.
	DeleteFollow(followerID, followingID uint) (int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	ListFollowers(userID uint, after *pagination.Position, limit int) ([]models.Follow, bool, error)
	ListFollowing(userID uint, after *pagination.Position, limit int) ([]models.Follow, bool, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(followerID, followingID uint) (*models.Follow, bool, error) {
	if followerID == followingID {
		return nil, false, ErrSelfFollow
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(follow)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, false, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return follow, true, nil
	}

	// The insert was ignored or a racing writer hit the unique index first;
	// either way the edge exists, so return the stored row.
	var existing models.Follow
	if err := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) (int64, error) {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) ListFollowers(userID uint, after *pagination.Position, limit int) ([]models.Follow, bool, error) {
	return r.listEdges(r.db.Where("following_id = ?", userID), after, limit)
}

func (r *PostgresFollowRepository) ListFollowing(userID uint, after *pagination.Position, limit int) ([]models.Follow, bool, error) {
	return r.listEdges(r.db.Where("follower_id = ?", userID), after, limit)
}

// listEdges pages edges ordered by created_at descending with the edge ID as
// an ascending tie-break, resuming strictly after the cursor position.
func (r *PostgresFollowRepository) listEdges(q *gorm.DB, after *pagination.Position, limit int) ([]models.Follow, bool, error) {
	if after != nil {
		afterID, err := strconv.ParseUint(after.ID, 10, 64)
		if err != nil {
			return nil, false, pagination.ErrInvalidCursor
		}
		q = q.Where("created_at < ? OR (created_at = ? AND id > ?)", after.CreatedAt, after.CreatedAt, afterID)
	}

	// Fetch one extra row to learn whether another page exists.
	var edges []models.Follow
	if err := q.Order("created_at DESC, id ASC").Limit(limit + 1).Find(&edges).Error; err != nil {
		return nil, false, err
	}
	hasMore := len(edges) > limit
	if hasMore {
		edges = edges[:limit]
	}
	return edges, hasMore, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
