package handlers

import "tweet-server/models"

// Response is the uniform envelope every endpoint returns: a message, a
// success flag and an optional payload. The User model never serializes
// its password field.
type Response struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	User    *models.User   `json:"user,omitempty"`
	Users   []models.User  `json:"users,omitempty"`
	Tweets  []models.Tweet `json:"tweets,omitempty"`
}
