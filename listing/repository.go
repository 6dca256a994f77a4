package listing

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"blog-toolkit/models"
)

// Repository queries published posts for the lists.
type Repository interface {
	Recent(ctx context.Context, args Args) ([]Item, error)
	MostCommented(ctx context.Context, args Args) ([]Item, error)
	MostViewed(ctx context.Context, args Args) ([]Item, error)
	Random(ctx context.Context, args Args) ([]Item, error)
	// Related returns posts sharing at least one tag with postID.
	Related(ctx context.Context, postID string, args Args) ([]Item, error)
	// SameCategory returns posts sharing a category with postID, shuffled.
	SameCategory(ctx context.Context, postID string, args Args) ([]Item, error)
	RecentComments(ctx context.Context, args CommentArgs) ([]CommentItem, error)
}

// GormRepository implements Repository on the posts table.
type GormRepository struct {
	db        *gorm.DB
	permalink func(slug string) string
	now       func() time.Time
}

func NewGormRepository(db *gorm.DB, permalink func(slug string) string) *GormRepository {
	return &GormRepository{db: db, permalink: permalink, now: time.Now}
}

func (r *GormRepository) published(ctx context.Context, args Args) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("id", "title", "slug", "comment_count", "views", "created_at").
		Where("published = ?", true)
	if len(args.Skips) > 0 {
		q = q.Where("id NOT IN ?", args.Skips)
	}
	if args.Limit > 0 {
		q = q.Limit(args.Limit)
	}
	if args.Offset > 0 {
		q = q.Offset(args.Offset)
	}
	return q
}

func (r *GormRepository) find(q *gorm.DB) ([]Item, error) {
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	items := make([]Item, len(posts))
	for i, p := range posts {
		items[i] = Item{
			ID:           p.ID,
			Title:        p.Title,
			Slug:         p.Slug,
			Permalink:    r.permalink(p.Slug),
			CommentCount: p.CommentCount,
			Views:        p.Views,
			PostDate:     p.CreatedAt,
		}
	}
	return items, nil
}

func (r *GormRepository) Recent(ctx context.Context, args Args) ([]Item, error) {
	return r.find(r.published(ctx, args).Order("created_at DESC"))
}

func (r *GormRepository) MostCommented(ctx context.Context, args Args) ([]Item, error) {
	return r.find(r.published(ctx, args).Order("comment_count DESC").Order("created_at DESC"))
}

func (r *GormRepository) MostViewed(ctx context.Context, args Args) ([]Item, error) {
	q := r.published(ctx, args)
	if args.Days > 0 {
		q = q.Where("created_at >= ?", r.now().AddDate(0, 0, -args.Days))
	}
	return r.find(q.Order("views DESC"))
}

func (r *GormRepository) Related(ctx context.Context, postID string, args Args) ([]Item, error) {
	tagIDs := r.db.Table("post_tags").Select("tag_id").Where("post_id = ?", postID)
	postIDs := r.db.Table("post_tags").Select("post_id").Where("tag_id IN (?)", tagIDs)

	args.Skips = append(append([]string(nil), args.Skips...), postID)
	q := r.published(ctx, args).Where("id IN (?)", postIDs).Order("created_at DESC")
	return r.find(q)
}

func (r *GormRepository) Random(ctx context.Context, args Args) ([]Item, error) {
	return r.find(r.published(ctx, args).Order("RANDOM()"))
}

func (r *GormRepository) SameCategory(ctx context.Context, postID string, args Args) ([]Item, error) {
	categoryIDs := r.db.Table("post_categories").Select("category_id").Where("post_id = ?", postID)
	postIDs := r.db.Table("post_categories").Select("post_id").Where("category_id IN (?)", categoryIDs)

	args.Skips = append(append([]string(nil), args.Skips...), postID)
	q := r.published(ctx, args).Where("id IN (?)", postIDs).Order("RANDOM()")
	return r.find(q)
}

type commentRow struct {
	ID          string
	PostID      string
	AuthorName  string
	AuthorEmail string
	Content     string
	CreatedAt   time.Time
	PostTitle   string
	PostSlug    string
}

// RecentComments returns the newest live comments on published posts.
func (r *GormRepository) RecentComments(ctx context.Context, args CommentArgs) ([]CommentItem, error) {
	q := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, comments.author_name, comments.author_email, comments.content, comments.created_at, posts.title AS post_title, posts.slug AS post_slug").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.published = ? AND posts.deleted_at IS NULL AND comments.deleted_at IS NULL", true)
	if len(args.SkipEmails) > 0 {
		q = q.Where("comments.author_email NOT IN ?", args.SkipEmails)
	}
	if args.Limit > 0 {
		q = q.Limit(args.Limit)
	}
	if args.Offset > 0 {
		q = q.Offset(args.Offset)
	}

	var rows []commentRow
	if err := q.Order("comments.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}

	items := make([]CommentItem, len(rows))
	for i, c := range rows {
		items[i] = CommentItem{
			ID:          c.ID,
			PostID:      c.PostID,
			PostTitle:   c.PostTitle,
			Permalink:   r.permalink(c.PostSlug) + "#comment-" + c.ID,
			AuthorName:  c.AuthorName,
			AuthorEmail: c.AuthorEmail,
			Content:     c.Content,
			Date:        c.CreatedAt,
		}
	}
	return items, nil
}
