package web

import (
	"fmt"
	"net/http"
	"strings"

	"goblog/internal/domain"
	"goblog/internal/storage"
)

type searchData struct {
	Posts []*domain.Post
	Query string
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		posts []*domain.Post
		err   error
	)
	if query == "" {
		// An empty query browses everything, newest first.
		posts, _, err = h.store.ListPosts(r.Context(), storage.ListArgs{})
	} else {
		posts, err = h.store.SearchPosts(r.Context(), query)
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "search.html",
		fmt.Sprintf("Search Results for %q", query),
		searchData{Posts: posts, Query: query})
}
