package services

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"tweet-server/models"
	"tweet-server/repository"
	"tweet-server/utils/errors"
)

// UserService implements the account and social-graph operations:
// registration, login, follow edges, bookmarks and profile editing.
type UserService struct {
	users     repository.UserRepository
	tweets    repository.TweetRepository
	snapshots SnapshotQueue
	jwtSecret string
}

func NewUserService(users repository.UserRepository, tweets repository.TweetRepository, snapshots SnapshotQueue, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		tweets:    tweets,
		snapshots: snapshots,
		jwtSecret: jwtSecret,
	}
}

// Follow adds the directed edge actor -> target, stored on both sides.
// The followers side is written first; the reconciler treats it as
// authoritative if the second write never lands.
func (s *UserService) Follow(ctx context.Context, actorID, targetID string) (*models.User, *models.User, error) {
	if actorID == targetID {
		return nil, nil, errors.Validation("You cannot follow yourself.")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, nil, userLookupError(err)
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, userLookupError(err)
	}

	if contains(target.Followers, actorID) {
		return nil, nil, errors.Conflict(fmt.Sprintf("User already followed to %s", target.Name))
	}

	if err := s.users.AddFollower(ctx, targetID, actorID); err != nil {
		return nil, nil, errors.Wrap(err, "DB_ERROR", "Failed to follow user.", http.StatusInternalServerError)
	}
	if err := s.users.AddFollowing(ctx, actorID, targetID); err != nil {
		log.Printf("Follow edge left asymmetric for %s -> %s, reconciler will repair: %v", actorID, targetID, err)
		return nil, nil, errors.Wrap(err, "DB_ERROR", "Failed to follow user.", http.StatusInternalServerError)
	}
	return actor, target, nil
}

// Unfollow removes the edge from both sides, followers side first.
func (s *UserService) Unfollow(ctx context.Context, actorID, targetID string) (*models.User, *models.User, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, nil, userLookupError(err)
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, userLookupError(err)
	}

	if !contains(actor.Following, targetID) {
		return nil, nil, errors.Conflict("User has not followed yet")
	}

	if err := s.users.RemoveFollower(ctx, targetID, actorID); err != nil {
		return nil, nil, errors.Wrap(err, "DB_ERROR", "Failed to unfollow user.", http.StatusInternalServerError)
	}
	if err := s.users.RemoveFollowing(ctx, actorID, targetID); err != nil {
		log.Printf("Unfollow edge left asymmetric for %s -> %s, reconciler will repair: %v", actorID, targetID, err)
		return nil, nil, errors.Wrap(err, "DB_ERROR", "Failed to unfollow user.", http.StatusInternalServerError)
	}
	return actor, target, nil
}

// ToggleBookmark saves the tweet when absent and removes it when
// present. It reports whether the tweet ended up bookmarked.
func (s *UserService) ToggleBookmark(ctx context.Context, actorID, tweetID string) (bool, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return false, userLookupError(err)
	}

	if contains(actor.Bookmarks, tweetID) {
		if err := s.users.RemoveBookmark(ctx, actorID, tweetID); err != nil {
			return false, errors.Wrap(err, "DB_ERROR", "Failed to update bookmarks.", http.StatusInternalServerError)
		}
		return false, nil
	}
	if err := s.users.AddBookmark(ctx, actorID, tweetID); err != nil {
		return false, errors.Wrap(err, "DB_ERROR", "Failed to update bookmarks.", http.StatusInternalServerError)
	}
	return true, nil
}

// EditProfile updates the user document and propagates the display
// fields into every tweet the user authored. Success is reported only
// after the fan-out job is durably enqueued, or after the rewrite ran
// synchronously when the queue is unavailable.
func (s *UserService) EditProfile(ctx context.Context, actorID, userID string, update models.ProfileUpdate) (*models.User, error) {
	if actorID != userID {
		return nil, errors.Unauthorized("You can only edit your own profile.")
	}
	if update.Name == "" || update.Username == "" {
		return nil, errors.Validation("Name and username are required.")
	}
	if update.ProfileImage == "" {
		update.ProfileImage = models.DefaultProfileImage
	}

	taken, err := s.users.UsernameTaken(ctx, update.Username, userID)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to update profile.", http.StatusInternalServerError)
	}
	if taken {
		return nil, errors.Conflict("Username is already taken.")
	}

	updated, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return nil, errors.NewAPIError("NOT_FOUND", "User not found.", http.StatusNotFound)
		case repository.ErrDuplicate:
			return nil, errors.Conflict("Username is already taken.")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to update profile.", http.StatusInternalServerError)
	}

	job := FanoutJob{
		UserID:       userID,
		Name:         update.Name,
		Username:     update.Username,
		ProfileImage: update.ProfileImage,
	}
	if err := s.snapshots.Enqueue(ctx, job); err != nil {
		log.Printf("Snapshot queue unavailable, running fan-out synchronously: %v", err)
		if err := s.tweets.UpdateAuthorSnapshot(ctx, userID, job.Snapshot()); err != nil {
			return nil, errors.Wrap(err, "DB_ERROR", "Failed to update profile.", http.StatusInternalServerError)
		}
	}
	return updated, nil
}

// GetProfile fetches a single user record.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// GetOtherUsers lists every user except the caller.
func (s *UserService) GetOtherUsers(ctx context.Context, userID string) ([]models.User, error) {
	others, err := s.users.FindOthers(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to fetch users.", http.StatusInternalServerError)
	}
	return others, nil
}

// GetFollowers resolves the user's followers into full records.
func (s *UserService) GetFollowers(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	followers, err := s.users.FindByIDs(ctx, user.Followers)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to fetch followers.", http.StatusInternalServerError)
	}
	return followers, nil
}

// GetFollowing resolves the ids the user follows into full records.
func (s *UserService) GetFollowing(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	following, err := s.users.FindByIDs(ctx, user.Following)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to fetch following.", http.StatusInternalServerError)
	}
	return following, nil
}

func userLookupError(err error) error {
	if err == repository.ErrNotFound {
		return errors.NewAPIError("NOT_FOUND", "User not found.", http.StatusNotFound)
	}
	return errors.Wrap(err, "DB_ERROR", "Failed to fetch user.", http.StatusInternalServerError)
}

func contains(set []string, value string) bool {
	for _, member := range set {
		if member == value {
			return true
		}
	}
	return false
}
