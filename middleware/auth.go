package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"blog-toolkit/config"
	"blog-toolkit/logger"
	"blog-toolkit/models"
	"blog-toolkit/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// AuthMiddleware validates JWT token
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth check for OPTIONS requests (CORS preflight)
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondUnauthorized(w, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			utils.RespondUnauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateJWT(token, os.Getenv("JWT_SECRET"))
		if err != nil {
			utils.RespondUnauthorized(w, "Invalid or expired token")
			return
		}

		// Verify user still exists in database (not deleted)
		db := config.GetDB()
		var user models.User
		if err := db.Select("id").Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			utils.RespondUnauthorized(w, "User not found or has been deleted")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole checks if user has required role
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
			if !ok {
				utils.RespondUnauthorized(w, "Unauthorized")
				return
			}

			if claims.Role != string(role) && claims.Role != string(models.RoleAdmin) {
				utils.RespondForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a helper for admin-only routes
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}

// CORSMiddleware handles CORS. Origins listed in CORS_ORIGINS get
// credentials; any other origin gets the wildcard.
func CORSMiddleware(next http.Handler) http.Handler {
	origins := config.GetEnvList("CORS_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400") // Cache preflight for 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request with its status and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.L().Info("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("duration", time.Since(start)),
		)
	})
}
