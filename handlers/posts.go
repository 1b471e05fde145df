package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"blog-server/db"
	"blog-server/hooks"
	"blog-server/metrics"
	"blog-server/templates"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
)

type IndexContent struct {
	Posts []*db.Post
	Count int
}

func (h *Handler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received request for ListPostsHandler")

	posts, err := h.store.All(r.Context())
	if err != nil {
		h.storeError(w, "all", "listing posts", err, true)
		return
	}

	count, err := h.store.Count(r.Context())
	if err != nil {
		// the page still renders; the count just reads zero
		log.Warnf("Error counting posts: %v", err)
		metrics.StoreErrors.WithLabelValues("count").Inc()
		count = 0
	}

	h.render(w, templates.IndexPage, templates.PageData{
		Title:     "Posts",
		PageTitle: "Posts",
		Content:   IndexContent{Posts: posts, Count: count},
	})
}

func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received request for CreatePostHandler")

	err := r.ParseForm()
	if err != nil {
		log.Warnf("Error parsing form: %v", err)
		http.Error(w, "Error parsing form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req PostRequest
	err = h.decoder.Decode(&req, r.PostForm)
	if err != nil {
		log.Warnf("Error decoding form: %v", err)
		http.Error(w, "Error decoding form: "+err.Error(), http.StatusBadRequest)
		return
	}

	err = h.validate.Struct(req)
	if err != nil {
		msg := validationMessage(err)
		log.Warnf("Invalid post request: %s", msg)
		http.Error(w, msg, http.StatusUnprocessableEntity)
		return
	}

	title, body := *req.Title, *req.Body

	id, err := h.store.Create(r.Context(), title, body)
	if err != nil {
		h.storeError(w, "create", "creating post", err, true)
		return
	}

	hookErr := hooks.ExecHook(hooks.DidCreatePost, hooks.HookParams{
		Ctx:  r.Context(),
		Post: &db.Post{Id: id, Poster: db.DefaultPoster, Title: title, Body: body},
	})
	if hookErr != nil {
		log.Warnf("Error in did_create_post hook: %v", hookErr)
	}

	log.Info("Created post", "id", id)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	log.Debug("Received request for GetPostHandler")

	post, ok := h.getPost(w, r)
	if !ok {
		return
	}

	h.render(w, templates.PostPage, templates.PageData{
		Title:     post.Title,
		PageTitle: post.Title,
		Content:   post,
	})
}

// getPost resolves {postId} and writes the error response itself when it
// returns false.
func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) (*db.Post, bool) {
	postId := mux.Vars(r)["postId"]

	id, err := strconv.ParseInt(postId, 10, 64)
	if err != nil {
		log.Warnf("Invalid post id %q: %v", postId, err)
		http.Error(w, "Invalid post id: "+postId, http.StatusBadRequest)
		return nil, false
	}

	post, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrPostNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return nil, false
		}
		h.storeError(w, "get", "getting post", err, false)
		return nil, false
	}

	return post, true
}
