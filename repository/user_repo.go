package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tweet-server/models"
)

// UserRepository is the persistence surface for user documents. Services
// depend on this interface so tests can substitute the in-memory
// implementation.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindOthers(ctx context.Context, excludeID string) ([]models.User, error)
	All(ctx context.Context) ([]models.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error
	AddFollowing(ctx context.Context, userID, followeeID string) error
	RemoveFollowing(ctx context.Context, userID, followeeID string) error
	AddBookmark(ctx context.Context, userID, tweetID string) error
	RemoveBookmark(ctx context.Context, userID, tweetID string) error
}

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	collection := db.Collection("users")
	ensureUniqueIndex(collection, "email")
	ensureUniqueIndex(collection, "username")
	return &MongoUserRepository{collection: collection}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user.ID.Hex(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
}

func (r *MongoUserRepository) FindOthers(ctx context.Context, excludeID string) ([]models.User, error) {
	objID, err := primitive.ObjectIDFromHex(excludeID)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$ne": objID}})
}

func (r *MongoUserRepository) All(ctx context.Context) ([]models.User, error) {
	return r.findAll(ctx, bson.M{})
}

func (r *MongoUserRepository) findAll(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	filter := bson.M{"username": username}
	if objID, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": objID}
	}
	err := r.collection.FindOne(ctx, filter).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{
		"$set": bson.M{
			"name":         update.Name,
			"username":     update.Username,
			"bio":          update.Bio,
			"profileImage": update.ProfileImage,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, set)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID string) error {
	return r.updateArray(ctx, userID, "$addToSet", "followers", followerID)
}

func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return r.updateArray(ctx, userID, "$pull", "followers", followerID)
}

func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, followeeID string) error {
	return r.updateArray(ctx, userID, "$addToSet", "following", followeeID)
}

func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, followeeID string) error {
	return r.updateArray(ctx, userID, "$pull", "following", followeeID)
}

func (r *MongoUserRepository) AddBookmark(ctx context.Context, userID, tweetID string) error {
	return r.updateArray(ctx, userID, "$addToSet", "bookmarks", tweetID)
}

func (r *MongoUserRepository) RemoveBookmark(ctx context.Context, userID, tweetID string) error {
	return r.updateArray(ctx, userID, "$pull", "bookmarks", tweetID)
}

func (r *MongoUserRepository) updateArray(ctx context.Context, userID, op, field, value string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{op: bson.M{field: value}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
