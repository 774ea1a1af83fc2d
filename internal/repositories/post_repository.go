package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/connectly/backend/internal/models"
	"github.com/connectly/backend/internal/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a post ID does not resolve to a stored post.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations. The feed
// only ever reads through ListByAuthors; writes belong to the authoring
// endpoints.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	// ListByAuthors returns posts by any of the given authors ordered by
	// created_at descending with _id descending as a tie-break, resuming
	// strictly after the cursor position. The bool reports whether more
	// qualifying posts exist beyond the returned page.
	ListByAuthors(ctx context.Context, authorIDs []uint, after *pagination.Position, limit int) ([]models.Post, bool, error)
	ListByAuthor(ctx context.Context, authorID uint, after *pagination.Position, limit int) ([]models.Post, bool, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) ListByAuthors(ctx context.Context, authorIDs []uint, after *pagination.Position, limit int) ([]models.Post, bool, error) {
	if len(authorIDs) == 0 {
		return nil, false, nil
	}

	filter := bson.M{"author_id": bson.M{"$in": authorIDs}}
	if after != nil {
		objID, err := primitive.ObjectIDFromHex(after.ID)
		if err != nil {
			return nil, false, pagination.ErrInvalidCursor
		}
		// Strictly after (created_at, _id) in descending order.
		filter = bson.M{"$and": bson.A{
			filter,
			bson.M{"$or": bson.A{
				bson.M{"created_at": bson.M{"$lt": after.CreatedAt}},
				bson.M{"created_at": after.CreatedAt, "_id": bson.M{"$lt": objID}},
			}},
		}}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1))
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, false, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, false, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}
	return posts, hasMore, nil
}

func (r *MongoPostRepository) ListByAuthor(ctx context.Context, authorID uint, after *pagination.Position, limit int) ([]models.Post, bool, error) {
	return r.ListByAuthors(ctx, []uint{authorID}, after, limit)
}
