package services

import (
	"context"
	"net/http"
	"time"

	"tweet-server/models"
	"tweet-server/repository"
	"tweet-server/utils/errors"
)

// TweetService implements the content operations: tweet lifecycle, the
// like toggle and the feed queries.
type TweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
}

func NewTweetService(tweets repository.TweetRepository, users repository.UserRepository) *TweetService {
	return &TweetService{tweets: tweets, users: users}
}

// Create stores a tweet with a snapshot of the author's current display
// fields embedded in userDetails.
func (s *TweetService) Create(ctx context.Context, authorID, description string) (*models.Tweet, error) {
	if description == "" || authorID == "" {
		return nil, errors.Unauthorized("Fields are required.")
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, userLookupError(err)
	}

	profileImage := author.ProfileImage
	if profileImage == "" {
		profileImage = models.DefaultProfileImage
	}
	tweet := models.Tweet{
		Description: description,
		UserID:      authorID,
		Like:        []string{},
		UserDetails: []models.AuthorSnapshot{{
			UserID:       authorID,
			Name:         author.Name,
			Username:     author.Username,
			ProfileImage: profileImage,
		}},
		CreatedAt: time.Now(),
	}

	if _, err := s.tweets.Create(ctx, &tweet); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error creating tweet", http.StatusInternalServerError)
	}
	return &tweet, nil
}

// Delete removes a tweet. Only the author may delete it.
func (s *TweetService) Delete(ctx context.Context, actorID, tweetID string) error {
	tweet, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return tweetLookupError(err)
	}
	if tweet.UserID != actorID {
		return errors.Unauthorized("You can only delete your own tweets.")
	}
	if err := s.tweets.Delete(ctx, tweetID); err != nil {
		return errors.Wrap(err, "DB_ERROR", "Error deleting tweet", http.StatusInternalServerError)
	}
	return nil
}

// LikeOrDislike toggles the actor's membership in the tweet's like set
// and reports whether the tweet ended up liked.
func (s *TweetService) LikeOrDislike(ctx context.Context, actorID, tweetID string) (bool, error) {
	tweet, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return false, tweetLookupError(err)
	}

	if contains(tweet.Like, actorID) {
		if err := s.tweets.RemoveLike(ctx, tweetID, actorID); err != nil {
			return false, errors.Wrap(err, "DB_ERROR", "Error updating like status", http.StatusInternalServerError)
		}
		return false, nil
	}
	if err := s.tweets.AddLike(ctx, tweetID, actorID); err != nil {
		return false, errors.Wrap(err, "DB_ERROR", "Error updating like status", http.StatusInternalServerError)
	}
	return true, nil
}

// GetAllTweets returns the global feed, newest first.
func (s *TweetService) GetAllTweets(ctx context.Context) ([]models.Tweet, error) {
	tweets, err := s.tweets.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching tweets", http.StatusInternalServerError)
	}
	return tweets, nil
}

// GetFollowingTweets returns tweets authored by anyone the viewer
// follows, newest first.
func (s *TweetService) GetFollowingTweets(ctx context.Context, viewerID string) ([]models.Tweet, error) {
	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, userLookupError(err)
	}
	tweets, err := s.tweets.ByAuthors(ctx, viewer.Following)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching following tweets", http.StatusInternalServerError)
	}
	return tweets, nil
}

// GetLikedTweets returns tweets whose like set contains the user,
// newest first.
func (s *TweetService) GetLikedTweets(ctx context.Context, userID string) ([]models.Tweet, error) {
	tweets, err := s.tweets.LikedBy(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Error fetching liked tweets", http.StatusInternalServerError)
	}
	return tweets, nil
}

func tweetLookupError(err error) error {
	if err == repository.ErrNotFound {
		return errors.NewAPIError("NOT_FOUND", "Tweet not found.", http.StatusNotFound)
	}
	return errors.Wrap(err, "DB_ERROR", "Failed to fetch tweet.", http.StatusInternalServerError)
}
