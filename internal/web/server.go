package web

import (
	"errors"
	"html/template"
	"net/http"

	"goblog/internal/auth"
	"goblog/internal/domain"
	"goblog/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler holds the handlers' dependencies. Storage and the auth manager
// are injected so tests can run against the in-memory backend.
type Handler struct {
	store     storage.Storage
	auth      *auth.Manager
	templates map[string]*template.Template
}

func New(store storage.Storage, manager *auth.Manager) *Handler {
	return &Handler{
		store:     store,
		auth:      manager,
		templates: parseTemplates(),
	}
}

// Routes wires the full HTTP surface.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.auth.CurrentUser)

	// Public pages.
	r.Get("/", h.home)
	r.Get("/tags/{tag}", h.home)
	r.Get("/search", h.search)
	r.Get("/post/{id}", h.postDetail)

	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	// Everything below needs a session.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/post/new", h.postCreateForm)
		r.Post("/post/new", h.postCreate)
		r.Get("/post/{id}/update", h.postUpdateForm)
		r.Post("/post/{id}/update", h.postUpdate)
		r.Get("/post/{id}/delete", h.postDeleteConfirm)
		r.Post("/post/{id}/delete", h.postDelete)

		r.Post("/post/{id}/comment/new", h.commentCreate)
		r.Get("/comment/{id}/update", h.commentUpdateForm)
		r.Post("/comment/{id}/update", h.commentUpdate)
		r.Get("/comment/{id}/delete", h.commentDeleteConfirm)
		r.Post("/comment/{id}/delete", h.commentDelete)

		r.Get("/profile", h.profileForm)
		r.Post("/profile", h.profileUpdate)
	})

	return r
}

// === Shared handler helpers ===

// loadPost resolves the {id} path parameter or writes a 404.
func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (*domain.Post, bool) {
	post, err := h.store.GetPostByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		h.httpError(w, r, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	return post, true
}

// loadComment resolves the {id} path parameter or writes a 404.
func (h *Handler) loadComment(w http.ResponseWriter, r *http.Request) (*domain.Comment, bool) {
	comment, err := h.store.GetCommentByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		h.httpError(w, r, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	return comment, true
}

// authorize writes a 403 unless the current user owns the entity.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, entity domain.Owned) bool {
	user := auth.UserFrom(r.Context())
	if user == nil || !domain.CanMutate(user.ID, entity) {
		h.httpError(w, r, http.StatusForbidden)
		return false
	}
	return true
}
