package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"blog-toolkit/config"
	"blog-toolkit/logger"
	"blog-toolkit/models"
	"blog-toolkit/utils"
)

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginData struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // Unix timestamp
}

// Register creates a new author account (admin only)
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, "Invalid request payload")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Validate input
	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "Name is required"
	}
	if req.Email == "" {
		fields["email"] = "Email is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "Password must be at least 8 characters"
	}
	if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleUser {
		fields["role"] = "Role must be admin or user"
	}
	if len(fields) > 0 {
		utils.RespondValidationError(w, fields)
		return
	}

	// Default role is user
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	db := config.GetDB()
	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		logger.L().Error("Failed to check email", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}
	if existing > 0 {
		utils.RespondError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondInternalError(w)
		return
	}

	user := models.User{
		Name:     utils.SanitizeText(req.Name),
		Email:    req.Email,
		Password: hashedPassword,
		Role:     req.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.L().Error("Failed to create user", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}, nil)
}

// Login authenticates a user and returns a JWT token
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, "Invalid request payload")
		return
	}

	if req.Email == "" || req.Password == "" {
		fields := make(map[string]string)
		if req.Email == "" {
			fields["email"] = "Email is required"
		}
		if req.Password == "" {
			fields["password"] = "Password is required"
		}
		utils.RespondValidationError(w, fields)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.RespondUnauthorized(w, "Invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		logger.L().Info("Failed login attempt", logger.String("user_id", user.ID))
		utils.RespondUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), os.Getenv("JWT_SECRET"))
	if err != nil {
		utils.RespondInternalError(w)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, LoginData{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(utils.TokenTTL).Unix(),
	}, nil)
}
