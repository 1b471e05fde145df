package routes

import (
	"fmt"
	"net/http"

	"blog-server/handlers"
	"blog-server/hooks"
	"blog-server/metrics"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

func NewRouter(h *handlers.Handler, version string) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestMiddleware)

	AddHealthRoutes(r, version)
	AddMetricsRoute(r)
	AddPostRoutes(r, h)

	return r
}

func AddHealthRoutes(r *mux.Router, version string) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		hookErr := hooks.ExecHook(hooks.HealthCheck, hooks.HookParams{Ctx: r.Context()})
		if hookErr != nil {
			log.Errorf("Error in health check hook: %v", hookErr)
			http.Error(w, hookErr.Msg, hookErr.Status)
			return
		}
		fmt.Fprint(w, "OK")
	}).Methods("GET")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, version)
	}).Methods("GET")
}

func AddMetricsRoute(r *mux.Router) {
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
}

func AddPostRoutes(r *mux.Router, h *handlers.Handler) {
	r.HandleFunc("/", h.ListPostsHandler).Methods("GET")
	r.HandleFunc("/", h.CreatePostHandler).Methods("POST")
	r.HandleFunc("/posts/{postId}", h.GetPostHandler).Methods("GET")

	r.HandleFunc("/api/posts", h.ApiListPostsHandler).Methods("GET")
	r.HandleFunc("/api/posts/{postId}", h.ApiGetPostHandler).Methods("GET")
}
