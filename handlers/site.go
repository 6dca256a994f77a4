package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"blog-toolkit/config"
	"blog-toolkit/excerpt"
	"blog-toolkit/listing"
	"blog-toolkit/logger"
	"blog-toolkit/options"
	"blog-toolkit/sitecode"
	"blog-toolkit/utils"

	"github.com/gorilla/mux"
)

// GetSiteHead returns the fragment for the page head: meta tags on listing
// views followed by the head snippets.
func GetSiteHead(w http.ResponseWriter, r *http.Request) {
	opts, err := options.Default().Load(r.Context())
	if err != nil {
		logger.L().Warn("Failed to load options, using defaults", logger.Err(err))
	}

	view := excerpt.ParseView(r.URL.Query().Get("view"))
	utils.RespondHTML(w, http.StatusOK, sitecode.MetaTags(opts.MetaInfo, view)+sitecode.InjectHead(opts.CustomCode))
}

// GetSiteFooter returns the footer snippets.
func GetSiteFooter(w http.ResponseWriter, r *http.Request) {
	opts, err := options.Default().Load(r.Context())
	if err != nil {
		logger.L().Warn("Failed to load options, using defaults", logger.Err(err))
	}

	utils.RespondHTML(w, http.StatusOK, sitecode.InjectFooter(opts.CustomCode))
}

// errUnknownWidget is returned by the widget loaders for an unknown kind.
var errUnknownWidget = errors.New("unknown widget")

// widgetArgs reads limit, offset and days from the query string.
func widgetArgs(r *http.Request) listing.Args {
	args := listing.DefaultArgs()
	q := r.URL.Query()
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 50 {
		args.Limit = l
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		args.Offset = o
	}
	if d, err := strconv.Atoi(q.Get("days")); err == nil && d > 0 {
		args.Days = d
	}
	return args
}

// respondWidget serves the fragment cached under key, building it with load
// on a miss.
func respondWidget(w http.ResponseWriter, r *http.Request, key string, load func() (string, error)) {
	var fragment string
	err := utils.CacheRemember(r.Context(), key, utils.CacheTTLWidget, &fragment, func() (interface{}, error) {
		list, err := load()
		if err != nil {
			return nil, err
		}
		return "<ul>" + list + "</ul>", nil
	})
	switch {
	case errors.Is(err, errUnknownWidget):
		utils.RespondNotFound(w, "Widget")
	case err != nil:
		logger.L().Error("Failed to build widget", logger.String("key", key), logger.Err(err))
		utils.RespondInternalError(w)
	default:
		utils.RespondHTML(w, http.StatusOK, fragment)
	}
}

// GetWidget renders one of the post lists as an HTML fragment
func GetWidget(w http.ResponseWriter, r *http.Request) {
	kind := listing.Kind(mux.Vars(r)["kind"])
	args := widgetArgs(r)

	cacheKey := utils.BuildCacheKey(utils.CachePrefixWidgets, kind, args.Limit, args.Offset, args.Days)
	respondWidget(w, r, cacheKey, func() (string, error) {
		list, ok, err := listingService().List(r.Context(), kind, args)
		if !ok {
			return "", errUnknownWidget
		}
		return list, err
	})
}

// GetRelatedWidget renders the posts related to a post by tag
func GetRelatedWidget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	related, err := options.Default().RelatedList(ctx)
	if err != nil {
		logger.L().Warn("Failed to load related list options, using defaults", logger.Err(err))
	}

	args := listing.DefaultArgs()
	args.None = "No related posts."
	if related.Number > 0 {
		args.Limit = related.Number
	}
	if !related.ShowCommentCount {
		args.XFormat = listing.NoCountXFormat
	}

	cacheKey := utils.BuildCacheKey(utils.CachePrefixWidgets, "related", id)
	respondWidget(w, r, cacheKey, func() (string, error) {
		return listingService().Related(ctx, id, args)
	})
}

// GetSameCategoryWidget renders other posts filed under the categories of a
// post, in random order.
func GetSameCategoryWidget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	args := widgetArgs(r)

	cacheKey := utils.BuildCacheKey(utils.CachePrefixWidgets, "same-category", id, args.Limit, args.Offset)
	respondWidget(w, r, cacheKey, func() (string, error) {
		return listingService().SameCategory(r.Context(), id, args)
	})
}

// GetRecentCommentsWidget renders the latest comments on published posts.
func GetRecentCommentsWidget(w http.ResponseWriter, r *http.Request) {
	args := listing.DefaultCommentArgs()
	q := r.URL.Query()
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 50 {
		args.Limit = l
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		args.Offset = o
	}
	if n, err := strconv.Atoi(q.Get("length")); err == nil && n > 0 {
		args.Length = n
	}
	args.SkipEmails = config.GetEnvList("COMMENT_SKIP_EMAILS")

	cacheKey := utils.BuildCacheKey(utils.CachePrefixWidgets, "recent-comments", args.Limit, args.Offset, args.Length)
	respondWidget(w, r, cacheKey, func() (string, error) {
		return listingService().RecentComments(r.Context(), args)
	})
}
