package handlers

import (
	"net/http"
	"strings"
	"time"

	"blog-toolkit/config"
	"blog-toolkit/logger"
	"blog-toolkit/models"
	"blog-toolkit/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CommentRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Content     string `json:"content"`
}

// CommentResponse never carries the author email.
type CommentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

// CreateComment adds a comment to a published post and bumps its comment count
func CreateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req CommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, "Invalid request payload")
		return
	}

	name := utils.SanitizeText(strings.TrimSpace(req.AuthorName))
	email := strings.ToLower(strings.TrimSpace(req.AuthorEmail))
	content := utils.SanitizeText(strings.TrimSpace(req.Content))

	fields := make(map[string]string)
	if name == "" {
		fields["author_name"] = "Name is required"
	}
	if !strings.Contains(email, "@") {
		fields["author_email"] = "A valid email is required"
	}
	if content == "" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		utils.RespondValidationError(w, fields)
		return
	}

	db := config.GetDB()
	var post models.Post
	if err := db.Select("id").Where("id = ? AND published = ?", id, true).First(&post).Error; err != nil {
		utils.RespondNotFound(w, "Post")
		return
	}

	comment := models.Comment{
		PostID:      post.ID,
		AuthorName:  name,
		AuthorEmail: email,
		Content:     content,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
	})
	if err != nil {
		logger.L().Error("Failed to create comment", logger.String("post_id", post.ID), logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	invalidatePostCaches(r.Context())

	utils.RespondSuccess(w, http.StatusCreated, toCommentResponse(comment), nil)
}

// GetPostComments lists the comments of a post, oldest first
func GetPostComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	page, limit := parsePagination(r, 50)

	db := config.GetDB()
	var comments []models.Comment
	if err := db.Where("post_id = ?", id).
		Order("created_at ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&comments).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	response := make([]CommentResponse, len(comments))
	for i, c := range comments {
		response[i] = toCommentResponse(c)
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"comments": response,
	}, nil)
}

// DeleteComment soft deletes a comment and lowers the post's comment count
func DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	db := config.GetDB()
	var comment models.Comment
	if err := db.First(&comment, "id = ?", id).Error; err != nil {
		utils.RespondNotFound(w, "Comment")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ? AND comment_count > 0", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", 1)).Error
	})
	if err != nil {
		logger.L().Error("Failed to delete comment", logger.String("comment_id", id), logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	invalidatePostCaches(r.Context())

	utils.RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	}, nil)
}
