package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blog-toolkit/logger"
	"blog-toolkit/options"
	"blog-toolkit/sitecode"
	"blog-toolkit/utils"

	"github.com/gorilla/mux"
)

// GetOptions returns every settings subkey
func GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := options.Default().Load(r.Context())
	if err != nil {
		logger.L().Error("Failed to load options", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, opts, nil)
}

// GetOption returns one settings subkey
func GetOption(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, err := options.Default().GetByKey(r.Context(), key)
	if errors.Is(err, options.ErrUnknownKey) {
		utils.RespondNotFound(w, "Option")
		return
	}
	if err != nil {
		logger.L().Error("Failed to load options", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, value, nil)
}

// UpdateOption replaces one settings subkey. Fields left out of the body
// take their default values.
func UpdateOption(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var raw json.RawMessage
	if err := utils.DecodeJSON(r, &raw); err != nil {
		utils.RespondBadRequest(w, err.Error())
		return
	}

	value, err := options.Default().SetByKey(r.Context(), key, raw)
	switch {
	case errors.Is(err, options.ErrUnknownKey):
		utils.RespondNotFound(w, "Option")
		return
	case errors.Is(err, options.ErrDecode):
		utils.RespondValidationError(w, map[string]string{key: err.Error()})
		return
	case err != nil:
		logger.L().Error("Failed to save options", logger.String("key", key), logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	invalidatePostCaches(r.Context())
	logger.L().Info("Options updated", logger.String("key", key))

	utils.RespondSuccess(w, http.StatusOK, value, nil)
}

// DeleteOptions removes the stored settings, restoring the defaults
func DeleteOptions(w http.ResponseWriter, r *http.Request) {
	if err := options.Default().DeleteAll(r.Context()); err != nil {
		logger.L().Error("Failed to delete options", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	invalidatePostCaches(r.Context())

	utils.RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "Options reset to defaults",
	}, nil)
}

type SnippetRequest struct {
	Title    string `json:"title"`
	Source   string `json:"source"`
	Priority int    `json:"priority"`
	Hook     string `json:"hook"`
	Remark   string `json:"remark"`
}

// GetSnippets lists the custom code snippets
func GetSnippets(w http.ResponseWriter, r *http.Request) {
	snippets, err := options.Default().CustomCode(r.Context())
	if err != nil {
		logger.L().Error("Failed to load snippets", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}
	if snippets == nil {
		snippets = []sitecode.Snippet{}
	}
	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
		"snippets": snippets,
	}, nil)
}

// CreateSnippet adds a custom code snippet
func CreateSnippet(w http.ResponseWriter, r *http.Request) {
	saveSnippet(w, r, "")
}

// UpdateSnippet replaces a custom code snippet
func UpdateSnippet(w http.ResponseWriter, r *http.Request) {
	saveSnippet(w, r, mux.Vars(r)["id"])
}

func saveSnippet(w http.ResponseWriter, r *http.Request, id string) {
	var req SnippetRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err.Error())
		return
	}

	snippet := sitecode.Snippet{
		CodeID:   id,
		Title:    utils.SanitizeText(req.Title),
		Source:   req.Source,
		Priority: req.Priority,
		Hook:     req.Hook,
		Remark:   utils.SanitizeText(req.Remark),
	}

	saved, err := options.Default().UpsertSnippet(r.Context(), snippet)
	switch {
	case errors.Is(err, sitecode.ErrSnippetNotFound):
		utils.RespondNotFound(w, "Snippet")
		return
	case errors.Is(err, sitecode.ErrUnknownHook):
		utils.RespondValidationError(w, map[string]string{"hook": "Hook must be wp_head or wp_footer"})
		return
	case errors.Is(err, sitecode.ErrEmptySource):
		utils.RespondValidationError(w, map[string]string{"source": "Source is required"})
		return
	case err != nil:
		logger.L().Error("Failed to save snippet", logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	utils.RespondSuccess(w, status, saved, nil)
}

// DeleteSnippet removes a custom code snippet
func DeleteSnippet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := options.Default().RemoveSnippet(r.Context(), id)
	if errors.Is(err, sitecode.ErrSnippetNotFound) {
		utils.RespondNotFound(w, "Snippet")
		return
	}
	if err != nil {
		logger.L().Error("Failed to delete snippet", logger.String("code_id", id), logger.Err(err))
		utils.RespondInternalError(w)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "Snippet deleted successfully",
	}, nil)
}
