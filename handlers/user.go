package handlers

import (
	"net/http"
	"strings"

	"blog-toolkit/config"
	"blog-toolkit/middleware"
	"blog-toolkit/models"
	"blog-toolkit/utils"

	"github.com/gorilla/mux"
)

// UpdateUserRequest supports partial updates
type UpdateUserRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
}

// UserResponse is a user without credentials, with the number of posts
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	PostCount int64       `json:"post_count"`
}

func toUserResponse(u models.User, posts int64) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, PostCount: posts}
}

// GetCurrentUser retrieves current authenticated user info
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	// Get user info from context (set by AuthMiddleware)
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		utils.RespondUnauthorized(w, "Unauthorized")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		utils.RespondNotFound(w, "User")
		return
	}

	var posts int64
	db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&posts)

	utils.RespondSuccess(w, http.StatusOK, toUserResponse(user, posts), nil)
}

// GetUsers retrieves all users with their post counts (admin only)
func GetUsers(w http.ResponseWriter, r *http.Request) {
	db := config.GetDB()
	var users []models.User
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	type authorCount struct {
		AuthorID string
		Count    int64
	}
	var counts []authorCount
	db.Model(&models.Post{}).Select("author_id, count(*) AS count").Group("author_id").Scan(&counts)
	byAuthor := make(map[string]int64, len(counts))
	for _, c := range counts {
		byAuthor[c.AuthorID] = c.Count
	}

	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u, byAuthor[u.ID])
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"users": response,
	}, nil)
}

// UpdateUser updates a user (admin can update any, user can update self)
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		utils.RespondUnauthorized(w, "Unauthorized")
		return
	}
	isAdmin := claims.Role == string(models.RoleAdmin)
	if !isAdmin && claims.UserID != id {
		utils.RespondForbidden(w, "You don't have permission to update this user")
		return
	}

	var req UpdateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, "Invalid request payload")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		utils.RespondNotFound(w, "User")
		return
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = utils.SanitizeText(*req.Name)
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			utils.RespondValidationError(w, map[string]string{"password": "Password must be at least 8 characters"})
			return
		}
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.RespondInternalError(w)
			return
		}
		user.Password = hashed
	}
	// Don't allow updating role unless admin
	if req.Role != nil && isAdmin {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleUser {
			utils.RespondValidationError(w, map[string]string{"role": "Role must be admin or user"})
			return
		}
		user.Role = *req.Role
	}

	if err := db.Save(&user).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, toUserResponse(user, 0), nil)
}

// DeleteUser soft deletes a user (admin only)
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	claims, _ := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if claims != nil && claims.UserID == id {
		utils.RespondForbidden(w, "You can't delete your own account")
		return
	}

	db := config.GetDB()
	if err := db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	}, nil)
}
