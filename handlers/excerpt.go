package handlers

import (
	"net/http"

	"blog-toolkit/excerpt"
	"blog-toolkit/logger"
	"blog-toolkit/options"
	"blog-toolkit/utils"
)

type PreviewExcerptRequest struct {
	Content       string          `json:"content"`
	ManualExcerpt string          `json:"manual_excerpt"`
	Title         string          `json:"title"`
	Permalink     string          `json:"permalink"`
	Config        *excerpt.Config `json:"config,omitempty"`
}

type PreviewExcerptData struct {
	Body       string `json:"body"`
	Tip        string `json:"tip"`
	Excerpt    string `json:"excerpt"`
	TotalWords int    `json:"total_words"`
}

type CountWordsRequest struct {
	Text string `json:"text"`
}

type CountWordsData struct {
	Words int    `json:"words"`
	Level string `json:"level"`
}

// PreviewExcerpt computes the excerpt of a posted post without storing it.
// The stored excerpt settings apply unless the request carries a config.
func PreviewExcerpt(w http.ResponseWriter, r *http.Request) {
	var req PreviewExcerptRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err.Error())
		return
	}
	if req.Content == "" && req.ManualExcerpt == "" {
		utils.RespondValidationError(w, map[string]string{
			"content": "Content is required",
		})
		return
	}

	var cfg excerpt.Config
	if req.Config != nil {
		cfg = *req.Config
	} else {
		var err error
		if cfg, err = options.Default().Excerpt(r.Context()); err != nil {
			logger.L().Warn("Failed to load excerpt options, using defaults", logger.Err(err))
		}
	}

	post := excerpt.Post{
		Content:       req.Content,
		ManualExcerpt: req.ManualExcerpt,
		Title:         req.Title,
		Permalink:     req.Permalink,
	}
	res := engine.Compute(post, cfg)

	utils.RespondSuccess(w, http.StatusOK, PreviewExcerptData{
		Body:       res.Body,
		Tip:        res.Tip,
		Excerpt:    res.String(),
		TotalWords: engine.TotalWords(req.Content),
	}, nil)
}

// CountWords counts the words of a posted text
func CountWords(w http.ResponseWriter, r *http.Request) {
	var req CountWordsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err.Error())
		return
	}

	words := excerpt.WordsCount(req.Text)
	utils.RespondSuccess(w, http.StatusOK, CountWordsData{
		Words: words,
		Level: excerpt.WordCountLevel(words),
	}, nil)
}
