package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tweet-server/middleware"
	"tweet-server/models"
	"tweet-server/services"
	"tweet-server/utils/errors"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// actorID pulls the authenticated user id placed on the context by the
// JWT middleware. The actor is never taken from the request body.
func actorID(r *http.Request) (string, bool) {
	return middleware.UserIDFromContext(r.Context())
}

func (h *UserHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	tweetID := mux.Vars(r)["id"]

	added, err := h.userService.ToggleBookmark(r.Context(), actor, tweetID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	message := "Removed from bookmarks."
	if added {
		message = "Saved to bookmarks."
	}
	middleware.WriteJSON(w, http.StatusOK, Response{Message: message, Success: true})
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Profile fetched successfully.",
		Success: true,
		User:    user,
	})
}

func (h *UserHandler) GetOtherUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetOtherUsers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Users fetched successfully.",
		Success: true,
		Users:   users,
	})
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	targetID := mux.Vars(r)["id"]

	actorUser, targetUser, err := h.userService.Follow(r.Context(), actor, targetID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: fmt.Sprintf("%s just followed %s", actorUser.Name, targetUser.Name),
		Success: true,
	})
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	targetID := mux.Vars(r)["id"]

	actorUser, targetUser, err := h.userService.Unfollow(r.Context(), actor, targetID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: fmt.Sprintf("%s unfollowed %s", actorUser.Name, targetUser.Name),
		Success: true,
	})
}

func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	userID := mux.Vars(r)["id"]

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	updated, err := h.userService.EditProfile(r.Context(), actor, userID, update)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Profile updated successfully.",
		Success: true,
		User:    updated,
	})
}

func (h *UserHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	followers, err := h.userService.GetFollowers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Followers fetched successfully",
		Success: true,
		Users:   followers,
	})
}

func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := h.userService.GetFollowing(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Following users fetched successfully",
		Success: true,
		Users:   following,
	})
}
