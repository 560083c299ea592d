package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tweet-server/models"
	"tweet-server/repository"
)

const fanoutQueueKey = "fanout:profile"

// FanoutJob describes one profile-edit propagation: rewrite the author
// snapshot embedded in every tweet the user authored.
type FanoutJob struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

// Snapshot converts the job into the embedded document form.
func (j FanoutJob) Snapshot() models.AuthorSnapshot {
	return models.AuthorSnapshot{
		UserID:       j.UserID,
		Name:         j.Name,
		Username:     j.Username,
		ProfileImage: j.ProfileImage,
	}
}

// SnapshotQueue accepts fan-out jobs for asynchronous processing.
type SnapshotQueue interface {
	Enqueue(ctx context.Context, job FanoutJob) error
}

// FanoutService is the Redis-backed snapshot queue and its worker. Jobs
// survive a process restart; the worker retries the bulk rewrite and
// re-enqueues jobs whose retries are exhausted.
type FanoutService struct {
	redisClient *redis.Client
	tweets      repository.TweetRepository
	maxAttempts int
	backoff     time.Duration
}

func NewFanoutService(redisClient *redis.Client, tweets repository.TweetRepository) *FanoutService {
	return &FanoutService{
		redisClient: redisClient,
		tweets:      tweets,
		maxAttempts: 3,
		backoff:     time.Second,
	}
}

// Enqueue durably stores the job. Callers must not report the profile
// edit as successful before this returns nil.
func (s *FanoutService) Enqueue(ctx context.Context, job FanoutJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redisClient.LPush(ctx, fanoutQueueKey, payload).Err()
}

// Run consumes jobs until the context is cancelled.
func (s *FanoutService) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		result, err := s.redisClient.BRPop(ctx, 5*time.Second, fanoutQueueKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("Fanout worker failed to pop job: %v", err)
			time.Sleep(s.backoff)
			continue
		}

		var job FanoutJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Fanout worker dropped malformed job: %v", err)
			continue
		}
		if err := s.process(ctx, job); err != nil {
			log.Printf("Fanout job %s failed after %d attempts, re-enqueueing: %v", job.ID, s.maxAttempts, err)
			if err := s.Enqueue(ctx, job); err != nil {
				log.Printf("Failed to re-enqueue fanout job %s: %v", job.ID, err)
			}
		}
	}
}

func (s *FanoutService) process(ctx context.Context, job FanoutJob) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.tweets.UpdateAuthorSnapshot(ctx, job.UserID, job.Snapshot())
		if err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * s.backoff)
	}
	return err
}
