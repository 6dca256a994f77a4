package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"blog-toolkit/config"
	"blog-toolkit/excerpt"
	"blog-toolkit/listing"
	"blog-toolkit/logger"
	"blog-toolkit/models"
	"blog-toolkit/options"
	"blog-toolkit/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

var engine = excerpt.NewEngine(nil)

// UseShortcodes limits shortcode stripping in excerpts to names. An empty
// list strips every shortcode. Call it before serving.
func UseShortcodes(names []string) {
	engine = excerpt.NewEngine(&excerpt.TextPrimitives{Shortcodes: names})
}

// SimplifiedAuthor for response
type SimplifiedAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostResponse with excerpt (for list)
type PostResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Permalink    string           `json:"permalink"`
	Excerpt      string           `json:"excerpt"`
	Published    bool             `json:"published"`
	CommentCount int              `json:"comment_count"`
	Views        int              `json:"views"`
	Tags         []string         `json:"tags"`
	Categories   []string         `json:"categories"`
	AuthorID     string           `json:"author_id"`
	Author       SimplifiedAuthor `json:"author"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PostDetailResponse with full content (for single view)
type PostDetailResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	Related      string           `json:"related,omitempty"`
	Slug         string           `json:"slug"`
	Permalink    string           `json:"permalink"`
	Published    bool             `json:"published"`
	CommentCount int              `json:"comment_count"`
	Views        int              `json:"views"`
	Tags         []string         `json:"tags"`
	Categories   []string         `json:"categories"`
	AuthorID     string           `json:"author_id"`
	Author       SimplifiedAuthor `json:"author"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Permalink returns the public URL of the post with slug.
func Permalink(slug string) string {
	base := strings.TrimRight(config.GetEnv("BASE_URL", "http://localhost:8080"), "/")
	return base + "/posts/" + slug
}

func listingService() *listing.Service {
	return listing.NewService(listing.NewGormRepository(config.GetDB(), Permalink))
}

// parsePagination reads page and limit, capping limit at 100.
func parsePagination(r *http.Request, defaultLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}

func excerptPost(p models.Post) excerpt.Post {
	return excerpt.Post{
		Content:       p.Content,
		ManualExcerpt: p.Excerpt,
		Title:         p.Title,
		Permalink:     Permalink(p.Slug),
	}
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// listingExcerpt is what a listing view shows for p.
func listingExcerpt(p models.Post, cfg excerpt.Config) string {
	post := excerptPost(p)
	if p.Excerpt != "" {
		return engine.FilterExcerpt(p.Excerpt, post, cfg, excerpt.ListingView)
	}
	return engine.FilterContent(p.Content, post, cfg, excerpt.ListingView)
}

func toPostResponse(p models.Post, cfg excerpt.Config) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Permalink:    Permalink(p.Slug),
		Excerpt:      listingExcerpt(p, cfg),
		Published:    p.Published,
		CommentCount: p.CommentCount,
		Views:        p.Views,
		Tags:         tagNames(p.Tags),
		Categories:   categoryNames(p.Categories),
		AuthorID:     p.AuthorID,
		Author: SimplifiedAuthor{
			ID:   p.Author.ID,
			Name: p.Author.Name,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostDetailResponse(p models.Post) PostDetailResponse {
	return PostDetailResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Slug:         p.Slug,
		Permalink:    Permalink(p.Slug),
		Published:    p.Published,
		CommentCount: p.CommentCount,
		Views:        p.Views,
		Tags:         tagNames(p.Tags),
		Categories:   categoryNames(p.Categories),
		AuthorID:     p.AuthorID,
		Author: SimplifiedAuthor{
			ID:   p.Author.ID,
			Name: p.Author.Name,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// GetPosts retrieves published posts with pagination, each summarised the
// way a listing page shows it.
func GetPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePagination(r, 10)
	offset := (page - 1) * limit

	// Try cache first
	cacheKey := utils.BuildCacheKey(utils.CachePrefixPosts, "list", "page", page, "limit", limit)
	type cachedPosts struct {
		Posts []PostResponse `json:"posts"`
		Meta  *utils.Meta    `json:"meta"`
	}
	var cached cachedPosts
	if err := utils.CacheGet(ctx, cacheKey, &cached); err == nil {
		utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
			"posts": cached.Posts,
		}, cached.Meta)
		return
	}

	cfg, err := options.Default().Excerpt(ctx)
	if err != nil {
		logger.L().Warn("Failed to load excerpt options, using defaults", logger.Err(err))
	}

	// Cache miss - get from database
	db := config.GetDB()
	var total int64
	if err := db.Model(&models.Post{}).Where("published = ?", true).Count(&total).Error; err != nil {
		logger.L().Error("Failed to count posts", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	var posts []models.Post
	if err := db.Preload("Author").Preload("Tags").Preload("Categories").
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		logger.L().Error("Failed to list posts", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	response := make([]PostResponse, len(posts))
	for i, p := range posts {
		response[i] = toPostResponse(p, cfg)
	}
	meta := utils.NewMeta(page, limit, total)

	// Cache the response
	_ = utils.CacheSet(ctx, cacheKey, cachedPosts{Posts: response, Meta: meta}, utils.CacheTTLPostsList)

	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"posts": response,
	}, meta)
}

// GetPostBySlug retrieves a single published post. The content is returned
// whole, followed by the related posts block when it is enabled.
func GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	ctx := r.Context()
	cacheKey := utils.BuildCacheKey(utils.CachePrefixPosts, "slug", slug)
	db := config.GetDB()

	// Try cache first
	var response PostDetailResponse
	if err := utils.CacheGet(ctx, cacheKey, &response); err == nil {
		countView(db, response.ID)
		utils.RespondSuccess(w, http.StatusOK, response, nil)
		return
	}

	// Cache miss - get from database
	var post models.Post
	if err := db.Preload("Author").Preload("Tags").Preload("Categories").
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error; err != nil {
		utils.RespondNotFound(w, "Post")
		return
	}

	opts, err := options.Default().Load(ctx)
	if err != nil {
		logger.L().Warn("Failed to load options, using defaults", logger.Err(err))
	}

	response = toPostDetailResponse(post)
	response.Content = engine.FilterContent(post.Content, excerptPost(post), opts.Excerpt, excerpt.SingleView)

	related, err := listingService().RelatedBlock(ctx, post.ID, opts.RelatedList, excerpt.SingleView)
	if err != nil {
		logger.L().Warn("Failed to build related posts", logger.String("post_id", post.ID), logger.Err(err))
	}
	response.Related = related

	// Cache the response
	_ = utils.CacheSet(ctx, cacheKey, response, utils.CacheTTLPost)

	countView(db, post.ID)
	utils.RespondSuccess(w, http.StatusOK, response, nil)
}

// countView bumps the view counter used by the most viewed list.
func countView(db *gorm.DB, id string) {
	if err := db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		logger.L().Warn("Failed to count view", logger.String("post_id", id), logger.Err(err))
	}
}
