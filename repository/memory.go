package repository

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tweet-server/models"
)

// In-memory implementations of the repositories, used as test
// substitutes for the Mongo-backed ones.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return "", ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID.Hex()] = &clone
	return user.ID.Hex(), nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneUser(user)
	return &clone, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := cloneUser(user)
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) FindOthers(ctx context.Context, excludeID string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []models.User
	for id, user := range r.users {
		if id != excludeID {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) All(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []models.User
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

func (r *MemoryUserRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, user := range r.users {
		if user.Username == username && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.Name = update.Name
	user.Username = update.Username
	user.Bio = update.Bio
	user.ProfileImage = update.ProfileImage
	clone := cloneUser(user)
	return &clone, nil
}

func (r *MemoryUserRepository) AddFollower(ctx context.Context, userID, followerID string) error {
	return r.updateArray(userID, func(u *models.User) { u.Followers = addMember(u.Followers, followerID) })
}

func (r *MemoryUserRepository) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return r.updateArray(userID, func(u *models.User) { u.Followers = removeMember(u.Followers, followerID) })
}

func (r *MemoryUserRepository) AddFollowing(ctx context.Context, userID, followeeID string) error {
	return r.updateArray(userID, func(u *models.User) { u.Following = addMember(u.Following, followeeID) })
}

func (r *MemoryUserRepository) RemoveFollowing(ctx context.Context, userID, followeeID string) error {
	return r.updateArray(userID, func(u *models.User) { u.Following = removeMember(u.Following, followeeID) })
}

func (r *MemoryUserRepository) AddBookmark(ctx context.Context, userID, tweetID string) error {
	return r.updateArray(userID, func(u *models.User) { u.Bookmarks = addMember(u.Bookmarks, tweetID) })
}

func (r *MemoryUserRepository) RemoveBookmark(ctx context.Context, userID, tweetID string) error {
	return r.updateArray(userID, func(u *models.User) { u.Bookmarks = removeMember(u.Bookmarks, tweetID) })
}

func (r *MemoryUserRepository) updateArray(userID string, apply func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	apply(user)
	return nil
}

type MemoryTweetRepository struct {
	mu     sync.RWMutex
	tweets map[string]*models.Tweet
}

func NewMemoryTweetRepository() *MemoryTweetRepository {
	return &MemoryTweetRepository{tweets: make(map[string]*models.Tweet)}
}

func (r *MemoryTweetRepository) Create(ctx context.Context, tweet *models.Tweet) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tweet.ID.IsZero() {
		tweet.ID = primitive.NewObjectID()
	}
	clone := *tweet
	r.tweets[tweet.ID.Hex()] = &clone
	return tweet.ID.Hex(), nil
}

func (r *MemoryTweetRepository) FindByID(ctx context.Context, id string) (*models.Tweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tweet, ok := r.tweets[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneTweet(tweet)
	return &clone, nil
}

func (r *MemoryTweetRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tweets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tweets, id)
	return nil
}

func (r *MemoryTweetRepository) AddLike(ctx context.Context, tweetID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tweet, ok := r.tweets[tweetID]
	if !ok {
		return ErrNotFound
	}
	tweet.Like = addMember(tweet.Like, userID)
	return nil
}

func (r *MemoryTweetRepository) RemoveLike(ctx context.Context, tweetID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tweet, ok := r.tweets[tweetID]
	if !ok {
		return ErrNotFound
	}
	tweet.Like = removeMember(tweet.Like, userID)
	return nil
}

func (r *MemoryTweetRepository) All(ctx context.Context) ([]models.Tweet, error) {
	return r.filterNewestFirst(func(*models.Tweet) bool { return true }), nil
}

func (r *MemoryTweetRepository) ByAuthors(ctx context.Context, authorIDs []string) ([]models.Tweet, error) {
	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	return r.filterNewestFirst(func(t *models.Tweet) bool { return authors[t.UserID] }), nil
}

func (r *MemoryTweetRepository) LikedBy(ctx context.Context, userID string) ([]models.Tweet, error) {
	return r.filterNewestFirst(func(t *models.Tweet) bool {
		for _, id := range t.Like {
			if id == userID {
				return true
			}
		}
		return false
	}), nil
}

func (r *MemoryTweetRepository) UpdateAuthorSnapshot(ctx context.Context, authorID string, snapshot models.AuthorSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tweet := range r.tweets {
		if tweet.UserID != authorID {
			continue
		}
		for i := range tweet.UserDetails {
			tweet.UserDetails[i].Name = snapshot.Name
			tweet.UserDetails[i].Username = snapshot.Username
			tweet.UserDetails[i].ProfileImage = snapshot.ProfileImage
		}
	}
	return nil
}

func (r *MemoryTweetRepository) filterNewestFirst(keep func(*models.Tweet) bool) []models.Tweet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tweets []models.Tweet
	for _, tweet := range r.tweets {
		if keep(tweet) {
			tweets = append(tweets, cloneTweet(tweet))
		}
	}
	sort.Slice(tweets, func(i, j int) bool {
		return tweets[i].CreatedAt.After(tweets[j].CreatedAt)
	})
	return tweets
}

func cloneUser(user *models.User) models.User {
	clone := *user
	clone.Followers = append([]string(nil), user.Followers...)
	clone.Following = append([]string(nil), user.Following...)
	clone.Bookmarks = append([]string(nil), user.Bookmarks...)
	return clone
}

func cloneTweet(tweet *models.Tweet) models.Tweet {
	clone := *tweet
	clone.Like = append([]string(nil), tweet.Like...)
	clone.UserDetails = append([]models.AuthorSnapshot(nil), tweet.UserDetails...)
	return clone
}

func addMember(set []string, value string) []string {
	for _, member := range set {
		if member == value {
			return set
		}
	}
	return append(set, value)
}

func removeMember(set []string, value string) []string {
	out := set[:0]
	for _, member := range set {
		if member != value {
			out = append(out, member)
		}
	}
	return out
}
