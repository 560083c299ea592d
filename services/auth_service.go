package services

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tweet-server/models"
	"tweet-server/repository"
	"tweet-server/utils/errors"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 24 * time.Hour

// Register creates a new user account with a hashed password.
func (s *UserService) Register(ctx context.Context, name, username, email, password string) error {
	if name == "" || username == "" || email == "" || password == "" {
		return errors.Unauthorized("All fields are required.")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return errors.Unauthorized("User already exist.")
	}
	if err != repository.ErrNotFound {
		return errors.Wrap(err, "DB_ERROR", "Failed to register user.", http.StatusInternalServerError)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "HASH_ERROR", "Failed to register user.", http.StatusInternalServerError)
	}

	user := models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		Password:     string(passwordHash),
		Bio:          "",
		ProfileImage: models.DefaultProfileImage,
		Followers:    []string{},
		Following:    []string{},
		Bookmarks:    []string{},
		CreatedAt:    time.Now(),
	}

	if _, err := s.users.Create(ctx, &user); err != nil {
		if err == repository.ErrDuplicate {
			return errors.Unauthorized("User already exist.")
		}
		return errors.Wrap(err, "DB_ERROR", "Failed to register user.", http.StatusInternalServerError)
	}
	return nil
}

// Login verifies credentials and issues a signed session token. The
// failure message never reveals whether the email or the password was
// wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", errors.Unauthorized("All fields are required.")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, "", errors.Unauthorized("Incorrect email or password.")
		}
		return nil, "", errors.Wrap(err, "DB_ERROR", "Failed to login user.", http.StatusInternalServerError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", errors.Unauthorized("Incorrect email or password.")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID.Hex(),
		"exp":    time.Now().Add(SessionDuration).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token.", http.StatusInternalServerError)
	}

	return user, tokenString, nil
}
