package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tweet-server/models"
)

// TweetRepository is the persistence surface for tweet documents.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) (string, error)
	FindByID(ctx context.Context, id string) (*models.Tweet, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, tweetID, userID string) error
	RemoveLike(ctx context.Context, tweetID, userID string) error
	All(ctx context.Context) ([]models.Tweet, error)
	ByAuthors(ctx context.Context, authorIDs []string) ([]models.Tweet, error)
	LikedBy(ctx context.Context, userID string) ([]models.Tweet, error)
	UpdateAuthorSnapshot(ctx context.Context, authorID string, snapshot models.AuthorSnapshot) error
}

type MongoTweetRepository struct {
	collection *mongo.Collection
}

func NewMongoTweetRepository(db *mongo.Database) *MongoTweetRepository {
	return &MongoTweetRepository{collection: db.Collection("tweets")}
}

func (r *MongoTweetRepository) Create(ctx context.Context, tweet *models.Tweet) (string, error) {
	result, err := r.collection.InsertOne(ctx, tweet)
	if err != nil {
		return "", err
	}
	tweet.ID = result.InsertedID.(primitive.ObjectID)
	return tweet.ID.Hex(), nil
}

func (r *MongoTweetRepository) FindByID(ctx context.Context, id string) (*models.Tweet, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var tweet models.Tweet
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&tweet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tweet, nil
}

func (r *MongoTweetRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTweetRepository) AddLike(ctx context.Context, tweetID, userID string) error {
	return r.updateLike(ctx, tweetID, "$addToSet", userID)
}

func (r *MongoTweetRepository) RemoveLike(ctx context.Context, tweetID, userID string) error {
	return r.updateLike(ctx, tweetID, "$pull", userID)
}

func (r *MongoTweetRepository) updateLike(ctx context.Context, tweetID, op, userID string) error {
	objID, err := primitive.ObjectIDFromHex(tweetID)
	if err != nil {
		return ErrNotFound
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{op: bson.M{"like": userID}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTweetRepository) All(ctx context.Context) ([]models.Tweet, error) {
	return r.findNewestFirst(ctx, bson.M{})
}

func (r *MongoTweetRepository) ByAuthors(ctx context.Context, authorIDs []string) ([]models.Tweet, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	return r.findNewestFirst(ctx, bson.M{"userId": bson.M{"$in": authorIDs}})
}

func (r *MongoTweetRepository) LikedBy(ctx context.Context, userID string) ([]models.Tweet, error) {
	return r.findNewestFirst(ctx, bson.M{"like": userID})
}

func (r *MongoTweetRepository) findNewestFirst(ctx context.Context, filter bson.M) ([]models.Tweet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var tweets []models.Tweet
	if err := cursor.All(ctx, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

// UpdateAuthorSnapshot rewrites the denormalized author fields in every
// tweet authored by authorID. The positional all operator covers the
// single-element userDetails array.
func (r *MongoTweetRepository) UpdateAuthorSnapshot(ctx context.Context, authorID string, snapshot models.AuthorSnapshot) error {
	update := bson.M{
		"$set": bson.M{
			"userDetails.$[].name":         snapshot.Name,
			"userDetails.$[].username":     snapshot.Username,
			"userDetails.$[].profileImage": snapshot.ProfileImage,
		},
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"userId": authorID}, update)
	return err
}
