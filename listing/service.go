package listing

import (
	"context"
	"strings"

	"blog-toolkit/excerpt"
)

// RelatedOptions configures the related posts block under single posts.
type RelatedOptions struct {
	Enabled          bool   `json:"enabled"`
	Title            string `json:"title"`
	Number           int    `json:"number"`
	ShowCommentCount bool   `json:"show_comment_count"`
}

// Kind names a list.
type Kind string

const (
	KindRecent        Kind = "recent"
	KindMostCommented Kind = "most-commented"
	KindMostViewed    Kind = "most-viewed"
	KindRandom        Kind = "random"
)

// Service renders lists from a Repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List queries and renders a list of kind. ok is false for unknown kinds.
func (s *Service) List(ctx context.Context, kind Kind, args Args) (html string, ok bool, err error) {
	var items []Item
	switch kind {
	case KindRecent:
		items, err = s.repo.Recent(ctx, args)
	case KindMostCommented:
		items, err = s.repo.MostCommented(ctx, args)
	case KindMostViewed:
		if args.XFormat == DefaultXFormat {
			args.XFormat = ViewCountXFormat
		}
		items, err = s.repo.MostViewed(ctx, args)
	case KindRandom:
		items, err = s.repo.Random(ctx, args)
	default:
		return "", false, nil
	}
	if err != nil {
		return "", true, err
	}
	return Render(items, args), true, nil
}

// Related renders the related posts of postID.
func (s *Service) Related(ctx context.Context, postID string, args Args) (string, error) {
	items, err := s.repo.Related(ctx, postID, args)
	if err != nil {
		return "", err
	}
	return Render(items, args), nil
}

// SameCategory renders posts filed in the categories of postID.
func (s *Service) SameCategory(ctx context.Context, postID string, args Args) (string, error) {
	items, err := s.repo.SameCategory(ctx, postID, args)
	if err != nil {
		return "", err
	}
	return Render(items, args), nil
}

// RecentComments renders the newest comments.
func (s *Service) RecentComments(ctx context.Context, args CommentArgs) (string, error) {
	items, err := s.repo.RecentComments(ctx, args)
	if err != nil {
		return "", err
	}
	return RenderComments(items, args), nil
}

// RelatedBlock renders the block appended to single posts. It is empty on
// listing views and when the block is disabled.
func (s *Service) RelatedBlock(ctx context.Context, postID string, opts RelatedOptions, view excerpt.View) (string, error) {
	if !opts.Enabled || view == nil || view.IsListing() {
		return "", nil
	}

	args := DefaultArgs()
	if opts.Number > 0 {
		args.Limit = opts.Number
	}
	args.None = "No related posts."
	if !opts.ShowCommentCount {
		args.XFormat = NoCountXFormat
	}

	list, err := s.Related(ctx, postID, args)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(opts.Title)
	b.WriteString("<ul>")
	b.WriteString(list)
	b.WriteString("</ul>")
	return b.String(), nil
}
