package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"goblog/internal/auth"
	"goblog/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Every page template is parsed together with the base layout so each
// page can fill the layout's content block.
var pageFiles = []string{
	"home.html",
	"post_detail.html",
	"post_form.html",
	"post_confirm_delete.html",
	"comment_form.html",
	"comment_confirm_delete.html",
	"search.html",
	"register.html",
	"login.html",
	"profile.html",
	"error.html",
}

func parseTemplates() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		pages[name] = template.Must(template.ParseFS(templateFS,
			"templates/base.html", "templates/"+name))
	}
	return pages
}

// view is the envelope every template receives: layout fields plus the
// page-specific Data payload.
type view struct {
	Title string
	User  *domain.User
	Flash string
	Data  any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		log.Printf("missing template %s", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	v := view{
		Title: title,
		User:  auth.UserFrom(r.Context()),
		Flash: popFlash(w, r),
		Data:  data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", v); err != nil {
		log.Printf("failed to render %s: %v", page, err)
	}
}

type errorData struct {
	Status  int
	Message string
}

func (h *Handler) httpError(w http.ResponseWriter, r *http.Request, status int) {
	h.render(w, r, status, "error.html", http.StatusText(status), errorData{
		Status:  status,
		Message: http.StatusText(status),
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	h.httpError(w, r, http.StatusInternalServerError)
}

// === Flash messages ===

// flashCookie holds a one-shot notice shown on the next rendered page.
const flashCookie = "blog_flash"

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	message, _ := url.QueryUnescape(cookie.Value)
	return message
}
