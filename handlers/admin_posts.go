package handlers

import (
	"context"
	"net/http"
	"strings"

	"blog-toolkit/config"
	"blog-toolkit/excerpt"
	"blog-toolkit/logger"
	"blog-toolkit/middleware"
	"blog-toolkit/models"
	"blog-toolkit/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CreatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt"`
	Slug      string   `json:"slug"`
	Published  bool     `json:"published"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// UpdatePostRequest supports partial updates - only send fields you want to change
type UpdatePostRequest struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Excerpt   *string   `json:"excerpt"`
	Slug      *string   `json:"slug"`
	Published  *bool     `json:"published"`
	Tags       *[]string `json:"tags"`
	Categories *[]string `json:"categories"`
}

// PostWordCount is one row of the word count overview.
type PostWordCount struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Words int    `json:"words"`
	Level string `json:"level"`
}

// slugTaken reports whether another post uses slug. A failed count counts
// as taken so the slug is never reused blindly.
func slugTaken(db *gorm.DB, slug, exceptID string) bool {
	var count int64
	q := db.Model(&models.Post{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		logger.L().Error("Failed to check slug", logger.String("slug", slug), logger.Err(err))
		return true
	}
	return count > 0
}

// resolveTags finds or creates a tag for every name.
func resolveTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = utils.SanitizeText(strings.TrimSpace(name))
		slug := utils.GenerateSlug(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag := models.Tag{Name: name, Slug: slug}
		if err := db.Where(models.Tag{Slug: slug}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// resolveCategories finds or creates a category for every name.
func resolveCategories(db *gorm.DB, names []string) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = utils.SanitizeText(strings.TrimSpace(name))
		slug := utils.GenerateSlug(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		category := models.Category{Name: name, Slug: slug}
		if err := db.Where(models.Category{Slug: slug}).FirstOrCreate(&category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// invalidatePostCaches drops every cached list, post and widget.
func invalidatePostCaches(ctx context.Context) {
	for _, prefix := range []string{utils.CachePrefixPosts, utils.CachePrefixWidgets} {
		if err := utils.CacheDeletePattern(ctx, prefix+":*"); err != nil {
			logger.L().Debug("Cache eviction skipped", logger.String("prefix", prefix), logger.Err(err))
		}
	}
}

// AdminGetPosts retrieves all posts, drafts included, with pagination
func AdminGetPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r, 20)
	offset := (page - 1) * limit

	db := config.GetDB()
	var total int64
	if err := db.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	var posts []models.Post
	if err := db.Preload("Author").Preload("Tags").Preload("Categories").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	response := make([]PostDetailResponse, len(posts))
	for i, p := range posts {
		response[i] = toPostDetailResponse(p)
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"posts": response,
	}, utils.NewMeta(page, limit, total))
}

// CreatePost creates a new post
func CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err.Error())
		return
	}

	// Sanitize HTML content to prevent XSS
	title := utils.SanitizeText(strings.TrimSpace(req.Title))
	content := utils.SanitizeHTML(req.Content)

	fields := make(map[string]string)
	if title == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(content) == "" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		utils.RespondValidationError(w, fields)
		return
	}

	db := config.GetDB()

	// Auto-generate slug from title if not provided
	slug := utils.GenerateSlug(req.Slug)
	if slug == "" {
		slug = utils.UniqueSlug(utils.GenerateSlug(title), func(s string) bool {
			return slugTaken(db, s, "")
		})
	} else if slugTaken(db, slug, "") {
		utils.RespondValidationError(w, map[string]string{
			"slug": "Slug already exists. Please use a different slug.",
		})
		return
	}

	tags, err := resolveTags(db, req.Tags)
	if err != nil {
		logger.L().Error("Failed to resolve tags", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}
	categories, err := resolveCategories(db, req.Categories)
	if err != nil {
		logger.L().Error("Failed to resolve categories", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	// Get author ID from token
	claims, _ := r.Context().Value(middleware.UserContextKey).(*utils.Claims)

	post := models.Post{
		Title:     title,
		Content:   content,
		Excerpt:   utils.SanitizeHTML(req.Excerpt),
		Slug:      slug,
		Published: req.Published,
		AuthorID:   claims.UserID,
		Tags:       tags,
		Categories: categories,
	}

	if err := db.Create(&post).Error; err != nil {
		logger.L().Error("Failed to create post", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	invalidatePostCaches(r.Context())
	logger.L().Info("Post created", logger.String("post_id", post.ID), logger.String("slug", post.Slug))

	utils.RespondSuccess(w, http.StatusCreated, map[string]interface{}{
		"id":   post.ID,
		"slug": post.Slug,
	}, nil)
}

// UpdatePost updates a post
func UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	db := config.GetDB()
	var post models.Post
	if err := db.Preload("Author").Preload("Tags").Preload("Categories").First(&post, "id = ?", id).Error; err != nil {
		utils.RespondNotFound(w, "Post")
		return
	}

	var req UpdatePostRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err.Error())
		return
	}

	// Track what was updated for response
	updated := make(map[string]bool)

	if req.Title != nil {
		if title := utils.SanitizeText(strings.TrimSpace(*req.Title)); title != "" {
			post.Title = title
			updated["title"] = true
		}
	}
	if req.Content != nil {
		content := utils.SanitizeHTML(*req.Content)
		if strings.TrimSpace(content) == "" {
			utils.RespondValidationError(w, map[string]string{"content": "Content is required"})
			return
		}
		post.Content = content
		updated["content"] = true
	}
	if req.Excerpt != nil {
		post.Excerpt = utils.SanitizeHTML(*req.Excerpt)
		updated["excerpt"] = true
	}
	oldSlug := post.Slug
	if req.Slug != nil {
		if slug := utils.GenerateSlug(*req.Slug); slug != "" && slug != post.Slug {
			if slugTaken(db, slug, post.ID) {
				utils.RespondValidationError(w, map[string]string{
					"slug": "Slug already exists. Please use a different slug.",
				})
				return
			}
			post.Slug = slug
			updated["slug"] = true
		}
	}
	if req.Published != nil {
		post.Published = *req.Published
		updated["published"] = true
	}

	if len(updated) > 0 {
		if err := db.Omit("Tags", "Categories", "Author").Save(&post).Error; err != nil {
			logger.L().Error("Failed to update post", logger.String("post_id", id), logger.Err(err))
			utils.RespondInternalError(w)
			return
		}
	}

	if req.Tags != nil {
		tags, err := resolveTags(db, *req.Tags)
		if err == nil {
			err = db.Model(&post).Association("Tags").Replace(tags)
		}
		if err != nil {
			logger.L().Error("Failed to update tags", logger.String("post_id", id), logger.Err(err))
			utils.RespondInternalError(w)
			return
		}
		post.Tags = tags
		updated["tags"] = true
	}
	if req.Categories != nil {
		categories, err := resolveCategories(db, *req.Categories)
		if err == nil {
			err = db.Model(&post).Association("Categories").Replace(categories)
		}
		if err != nil {
			logger.L().Error("Failed to update categories", logger.String("post_id", id), logger.Err(err))
			utils.RespondInternalError(w)
			return
		}
		post.Categories = categories
		updated["categories"] = true
	}

	if len(updated) > 0 {
		invalidatePostCaches(r.Context())
		if updated["slug"] {
			logger.L().Info("Post slug changed", logger.String("from", oldSlug), logger.String("to", post.Slug))
		}
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"message":        "Post updated successfully",
		"updated_fields": updated,
		"data":           toPostDetailResponse(post),
	}, nil)
}

// DeletePost soft deletes a post
func DeletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	db := config.GetDB()
	var post models.Post
	if err := db.First(&post, "id = ?", id).Error; err != nil {
		utils.RespondNotFound(w, "Post")
		return
	}

	if err := db.Delete(&post).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	invalidatePostCaches(r.Context())

	utils.RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	}, nil)
}

// GetPostWordCounts lists the word count of every post with its length level
func GetPostWordCounts(w http.ResponseWriter, r *http.Request) {
	db := config.GetDB()
	var posts []models.Post
	if err := db.Select("id", "title", "content").Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.RespondInternalError(w)
		return
	}

	counts := make([]PostWordCount, len(posts))
	for i, p := range posts {
		words := engine.ContentWords(p.Content)
		counts[i] = PostWordCount{
			ID:    p.ID,
			Title: p.Title,
			Words: words,
			Level: excerpt.WordCountLevel(words),
		}
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"posts": counts,
	}, nil)
}
