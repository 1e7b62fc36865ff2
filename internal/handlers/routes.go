package handlers

import (
	"net/http"
	"time"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Likes         LikeStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Tweets        TweetStore
	Stats         StatsStore
	Tokens        TokenService
	Media         MediaStore
	LoginLimiter  RateLimiter
	NowFunc       func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	gate := SessionGate{Users: deps.Users, Tokens: deps.Tokens}

	health := HealthHandler{}
	users := UserHandler{Users: deps.Users, Tokens: deps.Tokens, Media: deps.Media, Limiter: deps.LoginLimiter, NowFunc: deps.NowFunc}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Media: deps.Media, NowFunc: deps.NowFunc}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, NowFunc: deps.NowFunc}
	likes := LikeHandler{Likes: deps.Likes, NowFunc: deps.NowFunc}
	playlists := PlaylistHandler{Playlists: deps.Playlists, NowFunc: deps.NowFunc}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, NowFunc: deps.NowFunc}
	tweets := TweetHandler{Tweets: deps.Tweets, NowFunc: deps.NowFunc}
	dashboard := DashboardHandler{Stats: deps.Stats, Videos: deps.Videos}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/logout", gate.Require(users.Logout))
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.Refresh)
	mux.HandleFunc("POST /api/v1/users/change-password", gate.Require(users.ChangePassword))
	mux.HandleFunc("GET /api/v1/users/current-user", gate.Require(users.CurrentUser))
	mux.HandleFunc("PATCH /api/v1/users/update-account", gate.Require(users.UpdateAccount))
	mux.HandleFunc("PATCH /api/v1/users/avatar", gate.Require(users.UpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/cover-image", gate.Require(users.UpdateCoverImage))
	mux.HandleFunc("GET /api/v1/users/c/{username}", gate.Optional(users.ChannelProfile))
	mux.HandleFunc("GET /api/v1/users/watch-history", gate.Require(users.WatchHistory))

	mux.HandleFunc("GET /api/v1/videos", gate.Require(videos.List))
	mux.HandleFunc("POST /api/v1/videos", gate.Require(videos.Create))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", gate.Optional(videos.Get))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", gate.Require(videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", gate.Require(videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/toggle/publish/{videoId}", gate.Require(videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/comments/{videoId}", comments.List)
	mux.HandleFunc("POST /api/v1/comments/{videoId}", gate.Require(comments.Create))
	mux.HandleFunc("PATCH /api/v1/comments/c/{commentId}", gate.Require(comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/c/{commentId}", gate.Require(comments.Delete))

	mux.HandleFunc("POST /api/v1/likes/toggle/v/{videoId}", gate.Require(likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/toggle/c/{commentId}", gate.Require(likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/toggle/t/{tweetId}", gate.Require(likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", gate.Require(likes.LikedVideos))

	mux.HandleFunc("POST /api/v1/playlists", gate.Require(playlists.Create))
	mux.HandleFunc("GET /api/v1/playlists/user/{userId}", playlists.ListByUser)
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", gate.Require(playlists.Get))
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", gate.Require(playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", gate.Require(playlists.Delete))
	mux.HandleFunc("PATCH /api/v1/playlists/add/{videoId}/{playlistId}", gate.Require(playlists.AddVideo))
	mux.HandleFunc("PATCH /api/v1/playlists/remove/{videoId}/{playlistId}", gate.Require(playlists.RemoveVideo))

	mux.HandleFunc("POST /api/v1/subscriptions/c/{channelId}", gate.Require(subscriptions.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/c/{channelId}", subscriptions.SubscriberCount)
	mux.HandleFunc("GET /api/v1/subscriptions/u/{subscriberId}", gate.Require(subscriptions.SubscribedChannels))

	mux.HandleFunc("POST /api/v1/tweets", gate.Require(tweets.Create))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", tweets.ListByUser)
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", gate.Require(tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", gate.Require(tweets.Delete))

	mux.HandleFunc("GET /api/v1/dashboard/stats", gate.Require(dashboard.ChannelStats))
	mux.HandleFunc("GET /api/v1/dashboard/stats/{channelId}", gate.Require(dashboard.ChannelStats))
	mux.HandleFunc("GET /api/v1/dashboard/videos", gate.Require(dashboard.ChannelVideos))
}
