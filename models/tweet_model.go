package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorSnapshot is the denormalized copy of the author's display fields
// embedded in each tweet so feeds render without a user lookup. It goes
// stale when the author edits their profile and is rewritten by the
// snapshot fan-out.
type AuthorSnapshot struct {
	UserID       string `json:"userId" bson:"userId"`
	Name         string `json:"name" bson:"name"`
	Username     string `json:"username" bson:"username"`
	ProfileImage string `json:"profileImage" bson:"profileImage"`
}

type Tweet struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Description string             `json:"description" bson:"description"`
	UserID      string             `json:"userId" bson:"userId"`
	Like        []string           `json:"like" bson:"like"`
	UserDetails []AuthorSnapshot   `json:"userDetails" bson:"userDetails"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
