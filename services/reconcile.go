package services

import (
	"context"
	"log"
	"time"

	"tweet-server/repository"
)

// Reconciler repairs asymmetric follow edges left behind when the
// second half of a paired write never landed. The followers arrays are
// authoritative: each user's following list is rewritten to exactly the
// set of users whose followers contain them. An interrupted follow gets
// its forward edge added; an interrupted unfollow gets its dangling
// forward edge removed.
type Reconciler struct {
	users    repository.UserRepository
	interval time.Duration
}

func NewReconciler(users repository.UserRepository, interval time.Duration) *Reconciler {
	return &Reconciler{users: users, interval: interval}
}

// Run executes a pass every interval until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			repaired, err := r.ReconcileOnce(ctx)
			if err != nil {
				log.Printf("Follow graph reconciliation failed: %v", err)
				continue
			}
			if repaired > 0 {
				log.Printf("Follow graph reconciliation repaired %d edges", repaired)
			}
		}
	}
}

// ReconcileOnce runs a single repair pass and returns the number of
// edges touched.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (int, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return 0, err
	}

	// expected[a] = ids of users whose followers contain a
	expected := make(map[string]map[string]bool, len(users))
	for _, user := range users {
		for _, followerID := range user.Followers {
			if expected[followerID] == nil {
				expected[followerID] = make(map[string]bool)
			}
			expected[followerID][user.ID.Hex()] = true
		}
	}

	repaired := 0
	for _, user := range users {
		userID := user.ID.Hex()
		want := expected[userID]

		for _, followeeID := range user.Following {
			if want[followeeID] {
				continue
			}
			if err := r.users.RemoveFollowing(ctx, userID, followeeID); err != nil {
				return repaired, err
			}
			repaired++
		}

		have := make(map[string]bool, len(user.Following))
		for _, followeeID := range user.Following {
			have[followeeID] = true
		}
		for followeeID := range want {
			if have[followeeID] {
				continue
			}
			if err := r.users.AddFollowing(ctx, userID, followeeID); err != nil {
				return repaired, err
			}
			repaired++
		}
	}
	return repaired, nil
}
