package web

import (
	"net/http"
	"strconv"
	"strings"

	"goblog/internal/auth"
	"goblog/internal/domain"
	"goblog/internal/storage"

	"github.com/go-chi/chi/v5"
)

// pageSize is how many posts a listing page shows.
const pageSize = 5

type homeData struct {
	Posts    []*domain.Post
	Tag      string
	Page     int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	tag := chi.URLParam(r, "tag")

	posts, total, err := h.store.ListPosts(r.Context(), storage.ListArgs{
		Tag:    tag,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	title := "Latest Posts"
	if tag != "" {
		title = "Posts Tagged: " + tag
	}
	h.render(w, r, http.StatusOK, "home.html", title, homeData{
		Posts:    posts,
		Tag:      tag,
		Page:     page,
		HasPrev:  page > 1,
		HasNext:  page*pageSize < total,
		PrevPage: page - 1,
		NextPage: page + 1,
	})
}

type postDetailData struct {
	Post     *domain.Post
	Comments []*domain.Comment
	Form     *CommentForm
}

func (h *Handler) postDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	h.renderPostDetail(w, r, post, &CommentForm{Errors: map[string]string{}})
}

// renderPostDetail shows a post with its comments and the comment form;
// commentCreate reuses it to re-render on validation failure.
func (h *Handler) renderPostDetail(w http.ResponseWriter, r *http.Request, post *domain.Post, form *CommentForm) {
	comments, err := h.store.GetCommentsByPostID(r.Context(), post.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "post_detail.html", post.Title, postDetailData{
		Post:     post,
		Comments: comments,
		Form:     form,
	})
}

type postFormData struct {
	Form    *PostForm
	Heading string
}

func (h *Handler) postCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "post_form.html", "New Post", postFormData{
		Form:    &PostForm{Errors: map[string]string{}},
		Heading: "New Post",
	})
}

func (h *Handler) postCreate(w http.ResponseWriter, r *http.Request) {
	form := newPostForm(r)
	if !form.Valid() {
		h.render(w, r, http.StatusOK, "post_form.html", "New Post", postFormData{form, "New Post"})
		return
	}

	user := auth.UserFrom(r.Context())
	post, err := h.store.CreatePost(r.Context(), &domain.Post{
		Title:    form.Title,
		Content:  form.Content,
		AuthorID: user.ID,
	}, form.TagList())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	setFlash(w, "Your post has been created!")
	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

func (h *Handler) postUpdateForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok || !h.authorize(w, r, post) {
		return
	}
	form := &PostForm{
		Title:   post.Title,
		Content: post.Content,
		Tags:    tagLabels(post),
		Errors:  map[string]string{},
	}
	h.render(w, r, http.StatusOK, "post_form.html", "Update Post", postFormData{form, "Update Post"})
}

func (h *Handler) postUpdate(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok || !h.authorize(w, r, post) {
		return
	}
	form := newPostForm(r)
	if !form.Valid() {
		h.render(w, r, http.StatusOK, "post_form.html", "Update Post", postFormData{form, "Update Post"})
		return
	}

	// The author never changes on update.
	if _, err := h.store.UpdatePost(r.Context(), post.ID, form.Title, form.Content, form.TagList()); err != nil {
		h.serverError(w, r, err)
		return
	}

	setFlash(w, "Your post has been updated!")
	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

type postDeleteData struct {
	Post *domain.Post
}

func (h *Handler) postDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok || !h.authorize(w, r, post) {
		return
	}
	h.render(w, r, http.StatusOK, "post_confirm_delete.html", "Delete Post", postDeleteData{post})
}

func (h *Handler) postDelete(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok || !h.authorize(w, r, post) {
		return
	}
	if err := h.store.DeletePost(r.Context(), post.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	setFlash(w, "Your post has been deleted!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func tagLabels(post *domain.Post) string {
	labels := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		labels = append(labels, t.Name)
	}
	return strings.Join(labels, ", ")
}
