package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"blog-server/config"
	"blog-server/db"
	"blog-server/handlers"
	"blog-server/hooks"
	"blog-server/templates"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, *db.PostStore) {
	t.Helper()

	conn, err := db.Connect(&config.Config{
		DbDriver:    config.DriverSqlite,
		DatabaseUrl: "sqlite://" + filepath.Join(t.TempDir(), "blog.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.MigrationsUp(conn, ""))

	store := db.NewPostStore(conn)
	h := handlers.NewHandler(store, templates.MustParse(), config.FailurePolicyRespond)

	return NewRouter(h, "1.2.3"), store
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateThenList(t *testing.T) {
	r, store := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Foo&body=Bar"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := serve(r, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.NotEmpty(t, rr.Header().Get(RequestIdHeader))

	post, err := store.Get(req.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, &db.Post{Id: 1, Poster: 0, Title: "Foo", Body: "Bar"}, post)

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Foo")
	assert.Contains(t, rr.Body.String(), "Bar")
	assert.Contains(t, rr.Body.String(), "1 post<")

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/posts/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Bar")

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/posts/2", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestApiRoutes(t *testing.T) {
	r, store := setupRouter(t)

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	_, err := store.Create(ctx, "Hello", "World")
	require.NoError(t, err)
	_, err = store.Create(ctx, "Second", "Post")
	require.NoError(t, err)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.ListPostsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Posts, 2)

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/api/posts/2", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":2,"poster":0,"title":"Second","body":"Post"}`, rr.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	r, _ := setupRouter(t)

	rr := serve(r, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealthRoutes(t *testing.T) {
	r, _ := setupRouter(t)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	hooks.RegisterHook(hooks.HealthCheck, func(params hooks.HookParams) *hooks.HookError {
		return &hooks.HookError{Status: http.StatusServiceUnavailable, Msg: "database unavailable"}
	})
	t.Cleanup(func() { hooks.UnregisterHook(hooks.HealthCheck) })

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, "1.2.3", rr.Body.String())
}

func TestRequestIdIsPreserved(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIdHeader, "abc-123")

	rr := serve(r, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIdHeader))
}

func TestMetricsRoute(t *testing.T) {
	r, _ := setupRouter(t)

	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `blog_http_requests_total{code="200",method="GET",route="/health"}`)
}

func TestRequestMiddlewareUnwrapsWriter(t *testing.T) {
	var flushErr error
	handler := RequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		flushErr = http.NewResponseController(w).Flush()
	}))

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/stream", nil))

	require.NoError(t, flushErr)
	assert.True(t, rr.Flushed)
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestCreateWithEmptyValues(t *testing.T) {
	r, store := setupRouter(t)

	for _, form := range []string{"title=&body=Bar", "title=Foo&body="} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := serve(r, req)
		assert.Equal(t, http.StatusSeeOther, rr.Code, form)
		assert.Equal(t, "/", rr.Header().Get("Location"), form)
	}

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	first, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &db.Post{Id: 1, Poster: 0, Title: "", Body: "Bar"}, first)

	second, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, &db.Post{Id: 2, Poster: 0, Title: "Foo", Body: ""}, second)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Foo"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := serve(r, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
