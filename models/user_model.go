package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProfileImage is the sentinel used when a user never set an avatar.
const DefaultProfileImage = "default1"

type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"`
	Bio          string             `json:"bio" bson:"bio"`
	ProfileImage string             `json:"profileImage" bson:"profileImage"`
	Followers    []string           `json:"followers" bson:"followers"`
	Following    []string           `json:"following" bson:"following"`
	Bookmarks    []string           `json:"bookmarks" bson:"bookmarks"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}
