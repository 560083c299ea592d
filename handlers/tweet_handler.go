package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"tweet-server/middleware"
	"tweet-server/services"
	"tweet-server/utils/errors"
)

type TweetHandler struct {
	tweetService *services.TweetService
}

func NewTweetHandler(tweetService *services.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if _, err := h.tweetService.Create(r.Context(), actor, input.Description); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, Response{
		Message: "Tweet created successfully.",
		Success: true,
	})
}

func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	tweetID := mux.Vars(r)["id"]

	if err := h.tweetService.Delete(r.Context(), actor, tweetID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Tweet deleted successfully.",
		Success: true,
	})
}

func (h *TweetHandler) LikeOrDislike(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}
	tweetID := mux.Vars(r)["id"]

	liked, err := h.tweetService.LikeOrDislike(r.Context(), actor, tweetID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	message := "User disliked your tweet."
	if liked {
		message = "User liked your tweet."
	}
	middleware.WriteJSON(w, http.StatusOK, Response{Message: message, Success: true})
}

func (h *TweetHandler) GetAllTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.tweetService.GetAllTweets(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Tweets fetched successfully.",
		Success: true,
		Tweets:  tweets,
	})
}

func (h *TweetHandler) GetFollowingTweets(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(r)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	tweets, err := h.tweetService.GetFollowingTweets(r.Context(), actor)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Following tweets fetched successfully.",
		Success: true,
		Tweets:  tweets,
	})
}

func (h *TweetHandler) GetLikedTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.tweetService.GetLikedTweets(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, Response{
		Message: "Liked tweets fetched successfully.",
		Success: true,
		Tweets:  tweets,
	})
}
