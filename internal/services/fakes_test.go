package services

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"github.com/connectly/backend/internal/repositories"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(ids ...uint) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint]models.User)}
	for _, id := range ids {
		f.users[id] = models.User{ID: id, Username: "user" + strconv.FormatUint(uint64(id), 10)}
	}
	return f
}

func (f *fakeUserRepo) CreateUser(u *models.User) error {
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UserExists(id uint) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

// fakeFollowRepo is an in-memory FollowRepository mirroring the keyset
// ordering of the real store: created_at descending, edge ID ascending.
type fakeFollowRepo struct {
	edges  []models.Follow
	nextID uint
	clock  time.Time
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeFollowRepo) CreateFollow(followerID, followingID uint) (*models.Follow, bool, error) {
	if followerID == followingID {
		return nil, false, repositories.ErrSelfFollow
	}
	for i := range f.edges {
		if f.edges[i].FollowerID == followerID && f.edges[i].FollowingID == followingID {
			edge := f.edges[i]
			return &edge, false, nil
		}
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	edge := models.Follow{ID: f.nextID, FollowerID: followerID, FollowingID: followingID, CreatedAt: f.clock}
	f.edges = append(f.edges, edge)
	return &edge, true, nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) (int64, error) {
	var kept []models.Follow
	var deleted int64
	for _, e := range f.edges {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.edges = kept
	return deleted, nil
}

func (f *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, e := range f.edges {
		if e.FollowerID == userID {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

func (f *fakeFollowRepo) ListFollowers(userID uint, after *pagination.Position, limit int) ([]models.Follow, bool, error) {
	return f.list(func(e models.Follow) bool { return e.FollowingID == userID }, after, limit)
}

func (f *fakeFollowRepo) ListFollowing(userID uint, after *pagination.Position, limit int) ([]models.Follow, bool, error) {
	return f.list(func(e models.Follow) bool { return e.FollowerID == userID }, after, limit)
}

func (f *fakeFollowRepo) list(match func(models.Follow) bool, after *pagination.Position, limit int) ([]models.Follow, bool, error) {
	var out []models.Follow
	for _, e := range f.edges {
		if !match(e) {
			continue
		}
		if after != nil {
			afterID, err := strconv.ParseUint(after.ID, 10, 64)
			if err != nil {
				return nil, false, pagination.ErrInvalidCursor
			}
			before := e.CreatedAt.Before(after.CreatedAt) ||
				(e.CreatedAt.Equal(after.CreatedAt) && uint64(e.ID) > afterID)
			if !before {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}

func (f *fakeFollowRepo) GetFollowersCount(userID uint) (int64, error) {
	var n int64
	for _, e := range f.edges {
		if e.FollowingID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowRepo) GetFollowingCount(userID uint) (int64, error) {
	var n int64
	for _, e := range f.edges {
		if e.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

// fakePostRepo is an in-memory PostRepository mirroring the feed ordering of
// the Mongo store: created_at descending, _id descending.
type fakePostRepo struct {
	posts []models.Post
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID.Hex() == id {
			p := p
			return &p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	var kept []models.Post
	for _, p := range f.posts {
		if p.ID.Hex() == id {
			continue
		}
		kept = append(kept, p)
	}
	f.posts = kept
	return nil
}

func (f *fakePostRepo) ListByAuthors(_ context.Context, authorIDs []uint, after *pagination.Position, limit int) ([]models.Post, bool, error) {
	if len(authorIDs) == 0 {
		return nil, false, nil
	}
	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	var out []models.Post
	for _, p := range f.posts {
		if !authors[p.AuthorID] {
			continue
		}
		if after != nil {
			before := p.CreatedAt.Before(after.CreatedAt) ||
				(p.CreatedAt.Equal(after.CreatedAt) && p.ID.Hex() < after.ID)
			if !before {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}

func (f *fakePostRepo) ListByAuthor(ctx context.Context, authorID uint, after *pagination.Position, limit int) ([]models.Post, bool, error) {
	return f.ListByAuthors(ctx, []uint{authorID}, after, limit)
}
