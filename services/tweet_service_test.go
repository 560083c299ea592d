package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-server/models"
	"tweet-server/repository"
	"tweet-server/utils/errors"
)

func newTestTweetService() (*TweetService, *repository.MemoryUserRepository, *repository.MemoryTweetRepository) {
	users := repository.NewMemoryUserRepository()
	tweets := repository.NewMemoryTweetRepository()
	return NewTweetService(tweets, users), users, tweets
}

func TestCreateTweet_SnapshotsAuthor(t *testing.T) {
	s, users, _ := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")

	tweet, err := s.Create(ctx, annID, "hello world")
	require.NoError(t, err)

	require.Len(t, tweet.UserDetails, 1)
	snapshot := tweet.UserDetails[0]
	assert.Equal(t, annID, snapshot.UserID)
	assert.Equal(t, "Ann", snapshot.Name)
	assert.Equal(t, "ann", snapshot.Username)
	assert.Equal(t, models.DefaultProfileImage, snapshot.ProfileImage)
	assert.Empty(t, tweet.Like)
	assert.False(t, tweet.CreatedAt.IsZero())
}

func TestCreateTweet_Validation(t *testing.T) {
	s, users, _ := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")

	_, err := s.Create(ctx, annID, "")
	require.Error(t, err)

	_, err = s.Create(ctx, "64f000000000000000000000", "hello")
	require.Error(t, err)
	assert.Equal(t, 404, err.(*errors.APIError).Status)
}

func TestLikeOrDislike_IsItsOwnInverse(t *testing.T) {
	s, users, tweets := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")
	bobID := seedUser(t, users, "Bob", "bob")
	tweetID := seedTweet(t, tweets, annID, "Ann", "hello", time.Now())

	liked, err := s.LikeOrDislike(ctx, bobID, tweetID)
	require.NoError(t, err)
	assert.True(t, liked)

	tweet, err := tweets.FindByID(ctx, tweetID)
	require.NoError(t, err)
	assert.Equal(t, []string{bobID}, tweet.Like)

	liked, err = s.LikeOrDislike(ctx, bobID, tweetID)
	require.NoError(t, err)
	assert.False(t, liked)

	tweet, err = tweets.FindByID(ctx, tweetID)
	require.NoError(t, err)
	assert.Empty(t, tweet.Like)
}

func TestLikeOrDislike_UnknownTweet(t *testing.T) {
	s, users, _ := newTestTweetService()
	annID := seedUser(t, users, "Ann", "ann")

	_, err := s.LikeOrDislike(context.Background(), annID, "64f000000000000000000000")
	require.Error(t, err)
	assert.Equal(t, 404, err.(*errors.APIError).Status)
}

func TestDeleteTweet_RequiresAuthorship(t *testing.T) {
	s, users, tweets := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")
	bobID := seedUser(t, users, "Bob", "bob")
	tweetID := seedTweet(t, tweets, annID, "Ann", "hello", time.Now())

	err := s.Delete(ctx, bobID, tweetID)
	require.Error(t, err)
	assert.Equal(t, 401, err.(*errors.APIError).Status)

	require.NoError(t, s.Delete(ctx, annID, tweetID))
	_, err = tweets.FindByID(ctx, tweetID)
	assert.Equal(t, repository.ErrNotFound, err)
}

func TestGetAllTweets_NewestFirst(t *testing.T) {
	s, users, tweets := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")

	base := time.Now()
	seedTweet(t, tweets, annID, "Ann", "oldest", base.Add(-2*time.Hour))
	seedTweet(t, tweets, annID, "Ann", "newest", base)
	seedTweet(t, tweets, annID, "Ann", "middle", base.Add(-time.Hour))

	feed, err := s.GetAllTweets(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt),
			"feed must be non-increasing by creation time")
	}
	assert.Equal(t, "newest", feed[0].Description)
}

func TestGetFollowingTweets_ScopedToFollowedAuthors(t *testing.T) {
	s, users, tweets := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")
	bobID := seedUser(t, users, "Bob", "bob")
	camID := seedUser(t, users, "Cam", "cam")

	require.NoError(t, users.AddFollowing(ctx, annID, bobID))
	require.NoError(t, users.AddFollower(ctx, bobID, annID))

	seedTweet(t, tweets, bobID, "Bob", "from bob", time.Now())
	seedTweet(t, tweets, camID, "Cam", "from cam", time.Now())

	feed, err := s.GetFollowingTweets(ctx, annID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "from bob", feed[0].Description)
}

func TestGetFollowingTweets_UnknownViewer(t *testing.T) {
	s, _, _ := newTestTweetService()

	_, err := s.GetFollowingTweets(context.Background(), "64f000000000000000000000")
	require.Error(t, err)
	assert.Equal(t, 404, err.(*errors.APIError).Status)
}

func TestGetLikedTweets(t *testing.T) {
	s, users, tweets := newTestTweetService()
	ctx := context.Background()
	annID := seedUser(t, users, "Ann", "ann")
	bobID := seedUser(t, users, "Bob", "bob")

	likedID := seedTweet(t, tweets, annID, "Ann", "liked one", time.Now())
	seedTweet(t, tweets, annID, "Ann", "other", time.Now())
	require.NoError(t, tweets.AddLike(ctx, likedID, bobID))

	feed, err := s.GetLikedTweets(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "liked one", feed[0].Description)
}
