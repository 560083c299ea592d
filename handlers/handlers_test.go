package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-server/middleware"
	"tweet-server/repository"
	"tweet-server/services"
)

const testSecret = "testsecret"

type noopQueue struct{}

func (noopQueue) Enqueue(ctx context.Context, job services.FanoutJob) error { return nil }

// newTestRouter wires the full HTTP surface against in-memory
// repositories, mirroring the wiring in main.
func newTestRouter() *mux.Router {
	users := repository.NewMemoryUserRepository()
	tweets := repository.NewMemoryTweetRepository()
	userService := services.NewUserService(users, tweets, noopQueue{}, testSecret)
	tweetService := services.NewTweetService(tweets, users)

	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	tweetHandler := NewTweetHandler(tweetService)

	r := mux.NewRouter()
	r.Use(middleware.ErrorMiddleware())

	authRouter := r.PathPrefix("/user").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Use(middleware.JWTMiddleware(testSecret))
	userRouter.HandleFunc("/profile/{id}", userHandler.GetProfile).Methods("GET")
	userRouter.HandleFunc("/follow/{id}", userHandler.Follow).Methods("POST")
	userRouter.HandleFunc("/unfollow/{id}", userHandler.Unfollow).Methods("POST")
	userRouter.HandleFunc("/bookmark/{id}", userHandler.Bookmark).Methods("PUT")
	userRouter.HandleFunc("/edit/{id}", userHandler.EditProfile).Methods("PUT")

	tweetRouter := r.PathPrefix("/tweet").Subrouter()
	tweetRouter.Use(middleware.JWTMiddleware(testSecret))
	tweetRouter.HandleFunc("/create", tweetHandler.Create).Methods("POST")
	tweetRouter.HandleFunc("/like/{id}", tweetHandler.LikeOrDislike).Methods("PUT")
	tweetRouter.HandleFunc("/alltweets", tweetHandler.GetAllTweets).Methods("GET")

	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, router *mux.Router, name, username, email string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/user/register", map[string]string{
		"name":     name,
		"username": username,
		"email":    email,
		"password": "secret",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func login(t *testing.T, router *mux.Router, email string) ([]*http.Cookie, map[string]any) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/user/login", map[string]string{
		"email":    email,
		"password": "secret",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Result().Cookies(), body
}

func TestRegisterAndLogin_SetsSessionCookie(t *testing.T) {
	router := newTestRouter()
	register(t, router, "Ann", "ann", "ann@example.com")

	cookies, body := login(t, router, "ann@example.com")

	var session *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == middleware.SessionCookieName {
			session = cookie
		}
	}
	require.NotNil(t, session, "login must set the session cookie")
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), session.Expires, time.Minute)

	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ann", user["name"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password must never be returned")
}

func TestLogin_WrongCredentials(t *testing.T) {
	router := newTestRouter()
	register(t, router, "Ann", "ann", "ann@example.com")

	rec := doJSON(t, router, http.MethodPost, "/user/login", map[string]string{
		"email":    "ann@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Incorrect email or password.", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/tweet/alltweets", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFollowFlow_ConflictOnSecondFollow(t *testing.T) {
	router := newTestRouter()
	register(t, router, "Ann", "ann", "ann@example.com")
	register(t, router, "Bob", "bob", "bob@example.com")

	annCookies, _ := login(t, router, "ann@example.com")
	_, bobBody := login(t, router, "bob@example.com")
	bobID := bobBody["user"].(map[string]any)["_id"].(string)

	rec := doJSON(t, router, http.MethodPost, "/user/follow/"+bobID, nil, annCookies)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/user/follow/"+bobID, nil, annCookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTweetFlow_CreateAndLike(t *testing.T) {
	router := newTestRouter()
	register(t, router, "Ann", "ann", "ann@example.com")
	annCookies, _ := login(t, router, "ann@example.com")

	rec := doJSON(t, router, http.MethodPost, "/tweet/create", map[string]string{
		"description": "hello world",
	}, annCookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/tweet/alltweets", nil, annCookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	tweets := body["tweets"].([]any)
	require.Len(t, tweets, 1)
	tweet := tweets[0].(map[string]any)
	assert.Equal(t, "hello world", tweet["description"])
	tweetID := tweet["_id"].(string)

	rec = doJSON(t, router, http.MethodPut, "/tweet/like/"+tweetID, nil, annCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User liked your tweet.", body["message"])
}
