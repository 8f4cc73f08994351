package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"goblog/internal/auth"
	"goblog/internal/domain"
	"goblog/internal/storage"
)

type registerData struct {
	Form *RegisterForm
}

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", "Register", registerData{
		Form: &RegisterForm{Errors: map[string]string{}},
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	form := newRegisterForm(r)
	if !form.Valid() {
		h.render(w, r, http.StatusOK, "register.html", "Register", registerData{form})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	_, err = h.store.CreateUser(r.Context(), &domain.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrUsernameTaken) {
		form.Errors["username"] = "That username is already taken."
		h.render(w, r, http.StatusOK, "register.html", "Register", registerData{form})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	// No auto-login: the account exists, the session does not.
	setFlash(w, fmt.Sprintf("Account created for %s! You can now log in.", form.Username))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type loginData struct {
	Form *LoginForm
	Next string
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", "Log In", loginData{
		Form: &LoginForm{Errors: map[string]string{}},
		Next: r.URL.Query().Get("next"),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	form := newLoginForm(r)
	next := r.FormValue("next")

	if form.Valid() {
		user, err := h.store.GetUserByUsername(r.Context(), form.Username)
		if err == nil && auth.CheckPassword(user.PasswordHash, form.Password) {
			if err := h.auth.SetSession(w, user.ID); err != nil {
				h.serverError(w, r, err)
				return
			}
			http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
			return
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.serverError(w, r, err)
			return
		}
		form.Errors["form"] = "Invalid username or password."
	}

	h.render(w, r, http.StatusOK, "login.html", "Log In", loginData{form, next})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type profileData struct {
	Form *ProfileForm
}

func (h *Handler) profileForm(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	h.render(w, r, http.StatusOK, "profile.html", "Profile", profileData{
		Form: &ProfileForm{
			Username: user.Username,
			Email:    user.Email,
			Errors:   map[string]string{},
		},
	})
}

func (h *Handler) profileUpdate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	form := newProfileForm(r)
	if !form.Valid() {
		h.render(w, r, http.StatusOK, "profile.html", "Profile", profileData{form})
		return
	}

	_, err := h.store.UpdateUser(r.Context(), user.ID, form.Username, form.Email)
	if errors.Is(err, storage.ErrUsernameTaken) {
		form.Errors["username"] = "That username is already taken."
		h.render(w, r, http.StatusOK, "profile.html", "Profile", profileData{form})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	setFlash(w, "Your profile has been updated.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
