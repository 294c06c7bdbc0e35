// Package handler exposes the post CRUD endpoints. Reads are public;
// writes require authentication and are scoped to the author.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"blog-backend/internal/platform/httpx"
	"blog-backend/internal/platform/rbac"
	"blog-backend/internal/post/domain"
	postrepo "blog-backend/internal/post/repository"
	"blog-backend/internal/server/middleware"
	userdomain "blog-backend/internal/user/domain"
)

// postIDPattern keeps /posts/my from being captured by the {id} route.
const postIDPattern = "{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}"

type Handler struct {
	posts postrepo.Repository
}

func New(posts postrepo.Repository) *Handler {
	return &Handler{posts: posts}
}

// Register mounts read routes on the public router and write routes on
// the authenticated subrouter.
func (h *Handler) Register(public, authed *mux.Router) {
	public.HandleFunc("/posts", h.list).Methods(http.MethodGet)
	public.HandleFunc("/posts/"+postIDPattern, h.get).Methods(http.MethodGet)
	authed.HandleFunc("/posts", h.create).Methods(http.MethodPost)
	authed.HandleFunc("/posts/my", h.listMine).Methods(http.MethodGet)
	authed.HandleFunc("/posts/"+postIDPattern, h.update).Methods(http.MethodPut)
	authed.HandleFunc("/posts/"+postIDPattern, h.delete).Methods(http.MethodDelete)
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if posts == nil {
		posts = []*domain.PostWithAuthor{}
	}
	httpx.WriteSuccess(w, http.StatusOK, "Posts Retrieved", posts)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid ID", "post ID must be a UUID")
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if post == nil {
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "post not found")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Post Retrieved", post)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), userID)
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if posts == nil {
		posts = []*domain.PostWithAuthor{}
	}
	httpx.WriteSuccess(w, http.StatusOK, "Posts Retrieved", posts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Creation Failed", "invalid request body")
		return
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := post.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Creation Failed", err.Error())
		return
	}

	if err := h.posts.Create(r.Context(), post); err != nil {
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "Post Created", post)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid ID", "post ID must be a UUID")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Update Failed", "invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Update Failed", "title and content are required")
		return
	}

	post, err := h.posts.Update(r.Context(), id, userID, req.Title, req.Content)
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if post == nil {
		// Missing post and someone else's post look the same.
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "post not found or not owned by you")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Post Updated", post)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := rbac.RequireUser(r.Context())
	if err != nil {
		httpx.WriteUnauthorized(w, err.Error())
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid ID", "post ID must be a UUID")
		return
	}

	// Admins may remove any post; everyone else only their own.
	var deleted bool
	if role, _ := middleware.GetRole(r.Context()); role == userdomain.RoleAdmin {
		deleted, err = h.posts.DeleteByID(r.Context(), id)
	} else {
		deleted, err = h.posts.Delete(r.Context(), id, userID)
	}
	if err != nil {
		httpx.WriteInternal(w)
		return
	}
	if !deleted {
		httpx.WriteError(w, http.StatusNotFound, "Not Found", "post not found or not owned by you")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Post Deleted", "Post has been removed")
}
