package handlers

import (
	"encoding/json"
	"net/http"

	"blog-server/db"

	"github.com/charmbracelet/log"
)

type ListPostsResponse struct {
	Count int        `json:"count"`
	Posts []*db.Post `json:"posts"`
}

func (h *Handler) ApiListPostsHandler(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received request for ApiListPostsHandler")

	posts, err := h.store.All(r.Context())
	if err != nil {
		h.storeError(w, "all", "listing posts", err, true)
		return
	}

	count, err := h.store.Count(r.Context())
	if err != nil {
		h.storeError(w, "count", "counting posts", err, false)
		return
	}

	writeJson(w, ListPostsResponse{Count: count, Posts: posts})
}

func (h *Handler) ApiGetPostHandler(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received request for ApiGetPostHandler")

	post, ok := h.getPost(w, r)
	if !ok {
		return
	}

	writeJson(w, post)
}

func writeJson(w http.ResponseWriter, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("Error marshalling response: %v", err)
		http.Error(w, "Error marshalling response: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(bytes)
}
