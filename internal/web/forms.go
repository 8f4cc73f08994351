package web

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen    = 100
	maxUsernameLen = 150
	minPasswordLen = 8
)

// PostForm carries the create/update post fields. Tags is the raw
// comma-separated input; TagList splits it into labels.
type PostForm struct {
	Title   string
	Content string
	Tags    string
	Errors  map[string]string
}

func newPostForm(r *http.Request) *PostForm {
	return &PostForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: strings.TrimSpace(r.FormValue("content")),
		Tags:    strings.TrimSpace(r.FormValue("tags")),
		Errors:  make(map[string]string),
	}
}

func (f *PostForm) Valid() bool {
	if f.Title == "" {
		f.Errors["title"] = "Title is required."
	} else if utf8.RuneCountInString(f.Title) > maxTitleLen {
		f.Errors["title"] = "Title must be at most 100 characters."
	}
	if f.Content == "" {
		f.Errors["content"] = "Content is required."
	}
	return len(f.Errors) == 0
}

// TagList returns the deduplicated labels from the tags field.
func (f *PostForm) TagList() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, label := range strings.Split(f.Tags, ",") {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// CommentForm carries a comment body.
type CommentForm struct {
	Content string
	Errors  map[string]string
}

func newCommentForm(r *http.Request) *CommentForm {
	return &CommentForm{
		Content: strings.TrimSpace(r.FormValue("content")),
		Errors:  make(map[string]string),
	}
}

func (f *CommentForm) Valid() bool {
	if f.Content == "" {
		f.Errors["content"] = "Comment cannot be empty."
	}
	return len(f.Errors) == 0
}

// RegisterForm carries the registration fields.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Errors          map[string]string
}

func newRegisterForm(r *http.Request) *RegisterForm {
	return &RegisterForm{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
		Errors:          make(map[string]string),
	}
}

func (f *RegisterForm) Valid() bool {
	validateUsername(f.Username, f.Errors)
	validateEmail(f.Email, f.Errors)
	if len(f.Password) < minPasswordLen {
		f.Errors["password"] = "Password must be at least 8 characters."
	} else if f.Password != f.PasswordConfirm {
		f.Errors["password_confirm"] = "Passwords do not match."
	}
	return len(f.Errors) == 0
}

// LoginForm carries the login fields. Failures are reported on the
// "form" key so the page never reveals which field was wrong.
type LoginForm struct {
	Username string
	Password string
	Errors   map[string]string
}

func newLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
		Errors:   make(map[string]string),
	}
}

func (f *LoginForm) Valid() bool {
	if f.Username == "" || f.Password == "" {
		f.Errors["form"] = "Invalid username or password."
	}
	return len(f.Errors) == 0
}

// ProfileForm carries the editable profile fields. Password changes are
// deliberately not part of this form.
type ProfileForm struct {
	Username string
	Email    string
	Errors   map[string]string
}

func newProfileForm(r *http.Request) *ProfileForm {
	return &ProfileForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Errors:   make(map[string]string),
	}
}

func (f *ProfileForm) Valid() bool {
	validateUsername(f.Username, f.Errors)
	validateEmail(f.Email, f.Errors)
	return len(f.Errors) == 0
}

func validateUsername(username string, errs map[string]string) {
	if username == "" {
		errs["username"] = "Username is required."
	} else if utf8.RuneCountInString(username) > maxUsernameLen {
		errs["username"] = "Username must be at most 150 characters."
	}
}

func validateEmail(email string, errs map[string]string) {
	if email == "" {
		errs["email"] = "Email is required."
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}
}
