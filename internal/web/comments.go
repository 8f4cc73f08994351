package web

import (
	"errors"
	"net/http"

	"goblog/internal/auth"
	"goblog/internal/domain"
	"goblog/internal/storage"
)

func (h *Handler) commentCreate(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	form := newCommentForm(r)
	if !form.Valid() {
		// Re-render the detail page with the field errors inline.
		h.renderPostDetail(w, r, post, form)
		return
	}

	user := auth.UserFrom(r.Context())
	_, err := h.store.CreateComment(r.Context(), &domain.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Content:  form.Content,
	})
	if errors.Is(err, storage.ErrNotFound) {
		h.httpError(w, r, http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	setFlash(w, "Your comment was posted successfully!")
	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

type commentFormData struct {
	Form    *CommentForm
	Comment *domain.Comment
}

func (h *Handler) commentUpdateForm(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.loadComment(w, r)
	if !ok || !h.authorize(w, r, comment) {
		return
	}
	form := &CommentForm{Content: comment.Content, Errors: map[string]string{}}
	h.render(w, r, http.StatusOK, "comment_form.html", "Update Comment", commentFormData{form, comment})
}

func (h *Handler) commentUpdate(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.loadComment(w, r)
	if !ok || !h.authorize(w, r, comment) {
		return
	}
	form := newCommentForm(r)
	if !form.Valid() {
		h.render(w, r, http.StatusOK, "comment_form.html", "Update Comment", commentFormData{form, comment})
		return
	}

	if _, err := h.store.UpdateComment(r.Context(), comment.ID, form.Content); err != nil {
		h.serverError(w, r, err)
		return
	}

	setFlash(w, "Your comment has been updated!")
	http.Redirect(w, r, "/post/"+comment.PostID, http.StatusSeeOther)
}

type commentDeleteData struct {
	Comment *domain.Comment
}

func (h *Handler) commentDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.loadComment(w, r)
	if !ok || !h.authorize(w, r, comment) {
		return
	}
	h.render(w, r, http.StatusOK, "comment_confirm_delete.html", "Delete Comment", commentDeleteData{comment})
}

func (h *Handler) commentDelete(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.loadComment(w, r)
	if !ok || !h.authorize(w, r, comment) {
		return
	}
	if err := h.store.DeleteComment(r.Context(), comment.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	setFlash(w, "Your comment has been deleted!")
	http.Redirect(w, r, "/post/"+comment.PostID, http.StatusSeeOther)
}
