package handlers

import (
	"bytes"
	"context"
	"net/http"

	"blog-server/config"
	"blog-server/db"
	"blog-server/metrics"
	"blog-server/templates"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type PostStore interface {
	Get(ctx context.Context, id int64) (*db.Post, error)
	Count(ctx context.Context) (int, error)
	All(ctx context.Context) ([]*db.Post, error)
	Create(ctx context.Context, title, body string) (int64, error)
}

type AbortFn func(format string, args ...interface{})

type Handler struct {
	store    PostStore
	pages    *templates.Set
	policy   config.FailurePolicy
	abort    AbortFn
	decoder  *schema.Decoder
	validate *validator.Validate
}

func NewHandler(store PostStore, pages *templates.Set, policy config.FailurePolicy) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		store:    store,
		pages:    pages,
		policy:   policy,
		abort:    log.Fatalf,
		decoder:  decoder,
		validate: newValidator(),
	}
}

// WithAbortFn replaces the function called when the abort policy fires.
func (h *Handler) WithAbortFn(fn AbortFn) *Handler {
	h.abort = fn
	return h
}

// storeError reports a backend failure. Only listing and inserting honor the
// abort policy; lookups always respond.
func (h *Handler) storeError(w http.ResponseWriter, op, msg string, err error, abortable bool) {
	log.Errorf("Error %s: %v", msg, err)
	metrics.StoreErrors.WithLabelValues(op).Inc()

	if abortable && h.policy == config.FailurePolicyAbort {
		h.abort("Unrecoverable error %s: %v", msg, err)
		return
	}

	// the driver error can carry connection details, so it only goes to the log
	http.Error(w, "Error "+msg, http.StatusInternalServerError)
}

func (h *Handler) render(w http.ResponseWriter, page string, data templates.PageData) {
	var buf bytes.Buffer
	err := h.pages.Render(&buf, page, data)
	if err != nil {
		log.Errorf("Error rendering %s: %v", page, err)
		http.Error(w, "Error rendering page: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
