package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"tweet-server/middleware"
	"tweet-server/services"
	"tweet-server/utils/errors"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.userService.Register(r.Context(), input.Name, input.Username, input.Email, input.Password); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, Response{
		Message: "Account created successfully.",
		Success: true,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	user, token, err := h.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(services.SessionDuration),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Welcome back " + user.Name,
		Success: true,
		User:    user,
	})
}

// Logout expires the session cookie. Sessions are stateless, so there
// is nothing to invalidate server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "User logged out successfully.",
		Success: true,
	})
}
