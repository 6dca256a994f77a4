package routes

import (
	"net/http"

	"blog-toolkit/handlers"
	"blog-toolkit/middleware"

	"github.com/gorilla/mux"
)

func SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Apply logging and CORS middleware globally
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.CORSMiddleware)

	// Handle all OPTIONS requests globally before route matching
	router.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public routes
	api := router.PathPrefix("/api").Subrouter()

	// Auth routes - only login is public
	api.HandleFunc("/auth/login", handlers.Login).Methods("POST")

	// Public posts
	api.HandleFunc("/posts", handlers.GetPosts).Methods("GET")
	api.HandleFunc("/posts/slug/{slug}", handlers.GetPostBySlug).Methods("GET")
	api.HandleFunc("/posts/{id}/comments", handlers.GetPostComments).Methods("GET")
	api.HandleFunc("/posts/{id}/comments", handlers.CreateComment).Methods("POST")

	// Excerpt tools
	api.HandleFunc("/excerpt/preview", handlers.PreviewExcerpt).Methods("POST")
	api.HandleFunc("/words/count", handlers.CountWords).Methods("POST")

	// Site code and widgets, served as HTML fragments
	api.HandleFunc("/site/head", handlers.GetSiteHead).Methods("GET")
	api.HandleFunc("/site/footer", handlers.GetSiteFooter).Methods("GET")
	api.HandleFunc("/widgets/recent-comments", handlers.GetRecentCommentsWidget).Methods("GET")
	api.HandleFunc("/widgets/related/{id}", handlers.GetRelatedWidget).Methods("GET")
	api.HandleFunc("/widgets/same-category/{id}", handlers.GetSameCategoryWidget).Methods("GET")
	api.HandleFunc("/widgets/{kind}", handlers.GetWidget).Methods("GET")

	// Protected routes - require authentication
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/users/me", handlers.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PUT")

	// Admin-only routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/users", handlers.Register).Methods("POST")
	admin.HandleFunc("/users", handlers.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")

	admin.HandleFunc("/posts", handlers.AdminGetPosts).Methods("GET")
	admin.HandleFunc("/posts", handlers.CreatePost).Methods("POST")
	admin.HandleFunc("/posts/wordcount", handlers.GetPostWordCounts).Methods("GET")
	admin.HandleFunc("/posts/{id}", handlers.UpdatePost).Methods("PUT")
	admin.HandleFunc("/posts/{id}", handlers.DeletePost).Methods("DELETE")

	admin.HandleFunc("/comments/{id}", handlers.DeleteComment).Methods("DELETE")

	admin.HandleFunc("/options", handlers.GetOptions).Methods("GET")
	admin.HandleFunc("/options", handlers.DeleteOptions).Methods("DELETE")
	admin.HandleFunc("/options/{key}", handlers.GetOption).Methods("GET")
	admin.HandleFunc("/options/{key}", handlers.UpdateOption).Methods("PUT")

	admin.HandleFunc("/snippets", handlers.GetSnippets).Methods("GET")
	admin.HandleFunc("/snippets", handlers.CreateSnippet).Methods("POST")
	admin.HandleFunc("/snippets/{id}", handlers.UpdateSnippet).Methods("PUT")
	admin.HandleFunc("/snippets/{id}", handlers.DeleteSnippet).Methods("DELETE")

	return router
}
