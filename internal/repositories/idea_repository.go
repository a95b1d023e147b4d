package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/ideahub/backend/internal/apperr"
	"github.com/anonto42/ideahub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IdeaFilter narrows idea listings. Empty fields are ignored.
type IdeaFilter struct {
	CategoryID string
	UserID     string
	UserIDs    []string
}

// IdeaRepository defines the interface for idea data operations
type IdeaRepository interface {
	CreateIdea(ctx context.Context, idea *models.Idea) error
	GetIdeaByID(ctx context.Context, id string) (*models.Idea, error)
	ListIdeas(ctx context.Context, filter IdeaFilter, skip, limit int64) ([]models.Idea, error)
	SearchIdeas(ctx context.Context, query string, limit int64) ([]models.Idea, error)
	UpdateIdea(ctx context.Context, idea *models.Idea) error
	DeleteIdea(ctx context.Context, id string) error
	IncrementShareCount(ctx context.Context, id string) (*models.Idea, error)
}

// MongoIdeaRepository implements IdeaRepository for MongoDB
type MongoIdeaRepository struct {
	collection *mongo.Collection
}

// NewMongoIdeaRepository creates a new MongoIdeaRepository
func NewMongoIdeaRepository(db *mongo.Database) *MongoIdeaRepository {
	return &MongoIdeaRepository{collection: db.Collection("ideas")}
}

func ideaObjectID(op, id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(op, "Idea not found")
	}
	return objID, nil
}

// CreateIdea creates a new idea in MongoDB
func (r *MongoIdeaRepository) CreateIdea(ctx context.Context, idea *models.Idea) error {
	now := time.Now().UTC()
	idea.ID = primitive.NewObjectID()
	idea.ShareCount = 0
	idea.CreatedAt = now
	idea.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, idea)
	return translate("create idea", err, "")
}

// GetIdeaByID retrieves an idea by ID from MongoDB
func (r *MongoIdeaRepository) GetIdeaByID(ctx context.Context, id string) (*models.Idea, error) {
	objID, err := ideaObjectID("get idea", id)
	if err != nil {
		return nil, err
	}

	var idea models.Idea
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&idea); err != nil {
		return nil, translate("get idea", err, "Idea not found")
	}
	return &idea, nil
}

// ListIdeas returns ideas newest first
func (r *MongoIdeaRepository) ListIdeas(ctx context.Context, filter IdeaFilter, skip, limit int64) ([]models.Idea, error) {
	query := bson.M{}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	} else if len(filter.UserIDs) > 0 {
		query["user_id"] = bson.M{"$in": filter.UserIDs}
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, "list ideas", query, findOptions)
}

// SearchIdeas does a case-insensitive match on title and description
func (r *MongoIdeaRepository) SearchIdeas(ctx context.Context, query string, limit int64) ([]models.Idea, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}

	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, "search ideas", filter, findOptions)
}

func (r *MongoIdeaRepository) find(ctx context.Context, op string, filter interface{}, opts *options.FindOptions) ([]models.Idea, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(op, err, "")
	}
	defer cursor.Close(ctx)

	ideas := []models.Idea{}
	if err = cursor.All(ctx, &ideas); err != nil {
		return nil, translate(op, err, "")
	}
	return ideas, nil
}

// UpdateIdea updates the editable fields of an idea
func (r *MongoIdeaRepository) UpdateIdea(ctx context.Context, idea *models.Idea) error {
	idea.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":       idea.Title,
			"description": idea.Description,
			"category_id": idea.CategoryID,
			"updated_at":  idea.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": idea.ID}, update)
	if err != nil {
		return translate("update idea", err, "")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("update idea", "Idea not found")
	}
	return nil
}

// DeleteIdea deletes an idea by ID from MongoDB
func (r *MongoIdeaRepository) DeleteIdea(ctx context.Context, id string) error {
	objID, err := ideaObjectID("delete idea", id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return translate("delete idea", err, "")
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("delete idea", "Idea not found")
	}
	return nil
}

// IncrementShareCount atomically bumps share_count and returns the updated idea
func (r *MongoIdeaRepository) IncrementShareCount(ctx context.Context, id string) (*models.Idea, error) {
	objID, err := ideaObjectID("share idea", id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var idea models.Idea
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"share_count": 1}}, opts).Decode(&idea)
	if err != nil {
		return nil, translate("share idea", err, "Idea not found")
	}
	return &idea, nil
}
