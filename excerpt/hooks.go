package excerpt

// View tells the hooks what kind of page is being rendered.
type View interface {
	IsListing() bool
}

// ViewKind is a fixed View.
type ViewKind int

const (
	ListingView ViewKind = iota
	SingleView
)

func (v ViewKind) IsListing() bool {
	return v == ListingView
}

// ParseView maps a request's view name to a View. Home, archive and empty
// names are listings.
func ParseView(name string) ViewKind {
	switch name {
	case "", "home", "archive", "listing":
		return ListingView
	default:
		return SingleView
	}
}

// FilterExcerpt is the short excerpt hook. It replaces excerpt with the
// computed summary on listing views and passes it through otherwise.
func (e *Engine) FilterExcerpt(excerpt string, post Post, cfg Config, view View) string {
	if !cfg.Enabled || view == nil || !view.IsListing() {
		return excerpt
	}
	return e.Compute(post, cfg).String()
}

// FilterContent is the full content hook. Single views get content
// unchanged; listing views get the summary.
func (e *Engine) FilterContent(content string, post Post, cfg Config, view View) string {
	if !cfg.Enabled || view == nil || !view.IsListing() {
		return content
	}
	return e.Compute(post, cfg).String()
}
