package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// oid builds a deterministic ObjectID so tie-break ordering is predictable.
func oid(t *testing.T, n int) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(fmt.Sprintf("%024x", n))
	if err != nil {
		t.Fatalf("failed to build object id: %v", err)
	}
	return id
}

func seedPost(t *testing.T, repo *fakePostRepo, n int, author uint, created time.Time) models.Post {
	t.Helper()
	post := models.Post{
		ID:        oid(t, n),
		AuthorID:  author,
		Content:   fmt.Sprintf("post %d", n),
		CreatedAt: created,
	}
	repo.posts = append(repo.posts, post)
	return post
}

func TestFeedRequiresAuthentication(t *testing.T) {
	svc := NewFeedService(newFakeFollowRepo(), &fakePostRepo{})

	if _, err := svc.Feed(context.Background(), nil, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Feed(nil) error = %v, want ErrUnauthenticated", err)
	}
}

func TestFeedWithNoFollowsIsEmpty(t *testing.T) {
	posts := &fakePostRepo{}
	seedPost(t, posts, 1, 2, time.Unix(100, 0).UTC())

	svc := NewFeedService(newFakeFollowRepo(), posts)
	page, err := svc.Feed(context.Background(), &models.Principal{ID: 1}, "")
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(page.Results) != 0 {
		t.Errorf("Results = %v, want empty", page.Results)
	}
	if page.Next != nil {
		t.Errorf("Next = %q, want nil", *page.Next)
	}
}

func TestFeedMergesFollowedAuthorsNewestFirst(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.CreateFollow(1, 2)
	follows.CreateFollow(1, 3)

	posts := &fakePostRepo{}
	p1 := seedPost(t, posts, 1, 2, time.Unix(10, 0).UTC())
	p2 := seedPost(t, posts, 2, 2, time.Unix(20, 0).UTC())
	p3 := seedPost(t, posts, 3, 3, time.Unix(15, 0).UTC())
	// A post by an unfollowed author must never appear.
	seedPost(t, posts, 4, 7, time.Unix(30, 0).UTC())

	svc := NewFeedService(follows, posts)
	page, err := svc.Feed(context.Background(), &models.Principal{ID: 1}, "")
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}

	want := []primitive.ObjectID{p2.ID, p3.ID, p1.ID}
	if len(page.Results) != len(want) {
		t.Fatalf("page size = %d, want %d", len(page.Results), len(want))
	}
	for i, p := range page.Results {
		if p.ID != want[i] {
			t.Errorf("Results[%d] = %s, want %s", i, p.ID.Hex(), want[i].Hex())
		}
	}
	if page.Next != nil {
		t.Errorf("Next = %q, want nil", *page.Next)
	}
}

func TestFeedPaginationWalk(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.CreateFollow(1, 2)

	posts := &fakePostRepo{}
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 15; i++ {
		seedPost(t, posts, i, 2, base.Add(time.Duration(i)*time.Minute))
	}

	svc := NewFeedService(follows, posts)
	ctx := context.Background()
	principal := &models.Principal{ID: 1}

	first, err := svc.Feed(ctx, principal, "")
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(first.Results) != FeedPageSize {
		t.Fatalf("first page size = %d, want %d", len(first.Results), FeedPageSize)
	}
	if first.Next == nil {
		t.Fatal("first page Next = nil, want cursor")
	}

	second, err := svc.Feed(ctx, principal, *first.Next)
	if err != nil {
		t.Fatalf("Feed with cursor returned error: %v", err)
	}
	if len(second.Results) != 5 {
		t.Fatalf("second page size = %d, want 5", len(second.Results))
	}
	if second.Next != nil {
		t.Errorf("second page Next = %q, want nil", *second.Next)
	}

	all := append(append([]models.Post{}, first.Results...), second.Results...)
	seen := map[string]bool{}
	for i, p := range all {
		if seen[p.ID.Hex()] {
			t.Errorf("duplicate post %s across pages", p.ID.Hex())
		}
		seen[p.ID.Hex()] = true
		if i > 0 && p.CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("post %s out of order", p.ID.Hex())
		}
	}
	if len(seen) != 15 {
		t.Errorf("total distinct posts = %d, want 15", len(seen))
	}
}

func TestFeedTieBreakOnEqualTimestamps(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.CreateFollow(1, 2)

	posts := &fakePostRepo{}
	ts := time.Unix(1000, 0).UTC()
	pa := seedPost(t, posts, 1, 2, ts)
	pb := seedPost(t, posts, 2, 2, ts)
	pc := seedPost(t, posts, 3, 2, ts)

	svc := NewFeedService(follows, posts)
	page, err := svc.Feed(context.Background(), &models.Principal{ID: 1}, "")
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}

	want := []primitive.ObjectID{pc.ID, pb.ID, pa.ID}
	for i, p := range page.Results {
		if p.ID != want[i] {
			t.Errorf("Results[%d] = %s, want %s (id descending tie-break)", i, p.ID.Hex(), want[i].Hex())
		}
	}
}

func TestFeedDeletionBetweenPagesDoesNotSkipOrDuplicate(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.CreateFollow(1, 2)

	posts := &fakePostRepo{}
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		seedPost(t, posts, i, 2, base.Add(time.Duration(i)*time.Minute))
	}

	svc := NewFeedService(follows, posts)
	ctx := context.Background()
	principal := &models.Principal{ID: 1}

	first, err := svc.Feed(ctx, principal, "")
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(first.Results) != 10 || first.Next == nil {
		t.Fatalf("first page = %d items, Next = %v", len(first.Results), first.Next)
	}

	// Delete the last post of page one (the item the cursor was built from).
	if err := posts.DeletePost(ctx, first.Results[9].ID.Hex()); err != nil {
		t.Fatalf("DeletePost returned error: %v", err)
	}

	second, err := svc.Feed(ctx, principal, *first.Next)
	if err != nil {
		t.Fatalf("Feed with cursor returned error: %v", err)
	}
	if len(second.Results) != 2 {
		t.Fatalf("second page size = %d, want 2", len(second.Results))
	}
	if second.Results[0].ID != oid(t, 2) || second.Results[1].ID != oid(t, 1) {
		t.Errorf("second page = [%s %s], want the two oldest posts",
			second.Results[0].ID.Hex(), second.Results[1].ID.Hex())
	}
}

func TestFeedRejectsInvalidCursor(t *testing.T) {
	svc := NewFeedService(newFakeFollowRepo(), &fakePostRepo{})

	if _, err := svc.Feed(context.Background(), &models.Principal{ID: 1}, "!!!bad!!!"); !errors.Is(err, pagination.ErrInvalidCursor) {
		t.Errorf("Feed error = %v, want ErrInvalidCursor", err)
	}
}
