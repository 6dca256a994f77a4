package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-toolkit/excerpt"
	"blog-toolkit/options"
	"blog-toolkit/sitecode"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func useMemoryOptions(t *testing.T) *options.Manager {
	t.Helper()
	m := options.NewManager(options.NewMemoryStore())
	options.SetDefault(m)
	t.Cleanup(func() { options.SetDefault(options.NewManager(options.NewMemoryStore())) })
	return m
}

func newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/excerpt/preview", PreviewExcerpt).Methods("POST")
	r.HandleFunc("/api/words/count", CountWords).Methods("POST")
	r.HandleFunc("/api/site/head", GetSiteHead).Methods("GET")
	r.HandleFunc("/api/site/footer", GetSiteFooter).Methods("GET")
	r.HandleFunc("/api/admin/options", GetOptions).Methods("GET")
	r.HandleFunc("/api/admin/options", DeleteOptions).Methods("DELETE")
	r.HandleFunc("/api/admin/options/{key}", GetOption).Methods("GET")
	r.HandleFunc("/api/admin/options/{key}", UpdateOption).Methods("PUT")
	r.HandleFunc("/api/admin/snippets", GetSnippets).Methods("GET")
	r.HandleFunc("/api/admin/snippets", CreateSnippet).Methods("POST")
	r.HandleFunc("/api/admin/snippets/{id}", UpdateSnippet).Methods("PUT")
	r.HandleFunc("/api/admin/snippets/{id}", DeleteSnippet).Methods("DELETE")
	return r
}

func do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func TestPreviewExcerpt(t *testing.T) {
	useMemoryOptions(t)

	rec := do(t, "POST", "/api/excerpt/preview", `{
		"content": "one\ntwo\nthree\nfour\nfive",
		"title": "Counting",
		"permalink": "https://blog.example/counting"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data PreviewExcerptData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, "one\n\ntwo\n\nthree", data.Body)
	assert.Contains(t, data.Tip, `href="https://blog.example/counting"`)
	assert.Equal(t, data.Body+data.Tip, data.Excerpt)
	assert.Equal(t, 1, data.TotalWords)
}

func TestPreviewExcerptConfigOverride(t *testing.T) {
	useMemoryOptions(t)

	rec := do(t, "POST", "/api/excerpt/preview", `{
		"content": "one\ntwo\nthree",
		"config": {"enabled": true, "paragraphs": 1, "words": 1000, "tip_template": "[more]"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data PreviewExcerptData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, "one", data.Body)
	assert.Equal(t, "[more]", data.Tip)
}

func TestUseShortcodesKeepsUnregisteredNames(t *testing.T) {
	useMemoryOptions(t)
	prev := engine
	t.Cleanup(func() { engine = prev })

	UseShortcodes([]string{"gallery"})
	rec := do(t, "POST", "/api/excerpt/preview", `{
		"content": "[note]kept[/note] [gallery ids=\"1\"]\nsecond",
		"config": {"enabled": true, "paragraphs": 1, "words": 1000}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data PreviewExcerptData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Contains(t, data.Body, "[note]kept[/note]")
	assert.NotContains(t, data.Body, "[gallery")

	UseShortcodes(nil)
	rec = do(t, "POST", "/api/excerpt/preview", `{
		"content": "[note]kept[/note] [gallery ids=\"1\"]\nsecond",
		"config": {"enabled": true, "paragraphs": 1, "words": 1000}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.NotContains(t, data.Body, "[note]")
}

func TestPreviewExcerptValidation(t *testing.T) {
	useMemoryOptions(t)

	rec := do(t, "POST", "/api/excerpt/preview", `{"title": "no body"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "content")

	rec = do(t, "POST", "/api/excerpt/preview", `{"content": "x", "unknown": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, "POST", "/api/excerpt/preview", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountWords(t *testing.T) {
	rec := do(t, "POST", "/api/words/count", `{"text": "Hello 你好 world"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var data CountWordsData
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, 4, data.Words)
	assert.Equal(t, "normal", data.Level)
}

func TestSiteHeadAndFooter(t *testing.T) {
	m := useMemoryOptions(t)
	ctx := context.Background()

	_, err := m.SetByKey(ctx, options.KeyMetaInfo, json.RawMessage(`{"enabled":true,"site_description":"A \"Go\" blog","site_keywords":"go,web"}`))
	require.NoError(t, err)
	_, err = m.UpsertSnippet(ctx, sitecode.Snippet{Title: "Analytics", Source: "<script>track()</script>", Hook: sitecode.HookHead})
	require.NoError(t, err)
	_, err = m.UpsertSnippet(ctx, sitecode.Snippet{Title: "Chat", Source: "<div id=chat></div>", Hook: sitecode.HookFooter})
	require.NoError(t, err)

	rec := do(t, "GET", "/api/site/head?view=home", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `<meta name="description" content="A &#34;Go&#34; blog"/>`)
	assert.Contains(t, body, "<script>track()</script>")
	assert.NotContains(t, body, "chat")

	rec = do(t, "GET", "/api/site/head?view=single", "")
	assert.NotContains(t, rec.Body.String(), "<meta")
	assert.Contains(t, rec.Body.String(), "<script>track()</script>")

	rec = do(t, "GET", "/api/site/footer", "")
	assert.Contains(t, rec.Body.String(), "<div id=chat></div>")
	assert.NotContains(t, rec.Body.String(), "track()")
}

func TestOptionsEndpoints(t *testing.T) {
	useMemoryOptions(t)

	rec := do(t, "GET", "/api/admin/options/excerpt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg excerpt.Config
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &cfg))
	assert.Equal(t, excerpt.DefaultConfig(), cfg)

	rec = do(t, "PUT", "/api/admin/options/excerpt", `{"enabled":false,"paragraphs":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, "GET", "/api/admin/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts options.Options
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &opts))
	assert.False(t, opts.Excerpt.Enabled)
	assert.Equal(t, 5, opts.Excerpt.Paragraphs)
	assert.Equal(t, 250, opts.Excerpt.Words)

	rec = do(t, "PUT", "/api/admin/options/metainfo", `{"enabled":"yes"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, "GET", "/api/admin/options/hide-pages", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, "DELETE", "/api/admin/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, "GET", "/api/admin/options/excerpt", "")
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"paragraphs":3`)
}

func TestSnippetEndpoints(t *testing.T) {
	useMemoryOptions(t)

	rec := do(t, "POST", "/api/admin/snippets", `{"title":"Ads","source":"<ins></ins>","hook":"wp_footer","priority":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created sitecode.Snippet
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.True(t, strings.HasPrefix(created.CodeID, "wut_"))
	assert.NotEmpty(t, created.DateTime)

	rec = do(t, "POST", "/api/admin/snippets", `{"title":"Bad","source":"x","hook":"admin_head"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "hook")

	rec = do(t, "POST", "/api/admin/snippets", `{"title":"Empty","source":"  ","hook":"wp_head"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, "PUT", "/api/admin/snippets/"+created.CodeID, `{"title":"Ads v2","source":"<ins class=v2></ins>","hook":"wp_footer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, "PUT", "/api/admin/snippets/wut_missing", `{"title":"x","source":"x","hook":"wp_head"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, "GET", "/api/admin/snippets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Snippets []sitecode.Snippet `json:"snippets"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	require.Len(t, list.Snippets, 1)
	assert.Equal(t, "Ads v2", list.Snippets[0].Title)

	rec = do(t, "DELETE", "/api/admin/snippets/"+created.CodeID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, "DELETE", "/api/admin/snippets/"+created.CodeID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPermalink(t *testing.T) {
	t.Setenv("BASE_URL", "https://blog.example/")
	assert.Equal(t, "https://blog.example/posts/hello-go", Permalink("hello-go"))
}
