package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"tweet-server/config"
	"tweet-server/handlers"
	"tweet-server/middleware"
	"tweet-server/repository"
	"tweet-server/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	db := client.Database(cfg.MongoDatabase)
	userRepo := repository.NewMongoUserRepository(db)
	tweetRepo := repository.NewMongoTweetRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed, profile fan-out will fall back to synchronous writes: %v", err)
	}

	fanout := services.NewFanoutService(redisClient, tweetRepo)
	go fanout.Run(ctx)

	reconciler := services.NewReconciler(userRepo, time.Duration(cfg.ReconcileInterval)*time.Second)
	go reconciler.Run(ctx)

	userService := services.NewUserService(userRepo, tweetRepo, fanout, cfg.JWTSecret)
	tweetService := services.NewTweetService(tweetRepo, userRepo)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	tweetHandler := handlers.NewTweetHandler(tweetService)

	r := mux.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// Public auth routes
	authRouter := r.PathPrefix("/user").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("GET", "OPTIONS")

	// Protected user routes
	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	userRouter.HandleFunc("/bookmark/{id}", userHandler.Bookmark).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/profile/{id}", userHandler.GetProfile).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/otheruser/{id}", userHandler.GetOtherUsers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/follow/{id}", userHandler.Follow).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/unfollow/{id}", userHandler.Unfollow).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/edit/{id}", userHandler.EditProfile).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/followers/{id}", userHandler.GetFollowers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/following/{id}", userHandler.GetFollowing).Methods("GET", "OPTIONS")

	// Protected tweet routes
	tweetRouter := r.PathPrefix("/tweet").Subrouter()
	tweetRouter.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	tweetRouter.HandleFunc("/create", tweetHandler.Create).Methods("POST", "OPTIONS")
	tweetRouter.HandleFunc("/delete/{id}", tweetHandler.Delete).Methods("DELETE", "OPTIONS")
	tweetRouter.HandleFunc("/like/{id}", tweetHandler.LikeOrDislike).Methods("PUT", "OPTIONS")
	tweetRouter.HandleFunc("/alltweets", tweetHandler.GetAllTweets).Methods("GET", "OPTIONS")
	tweetRouter.HandleFunc("/followingtweets", tweetHandler.GetFollowingTweets).Methods("GET", "OPTIONS")
	tweetRouter.HandleFunc("/likedtweets/{id}", tweetHandler.GetLikedTweets).Methods("GET", "OPTIONS")

	log.Printf("Server starting on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
