// Package auth handles password hashing and the session cookie. Sessions
// are stateless: the cookie carries a signed token with the user id, and
// the middleware resolves it against storage on every request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"goblog/internal/domain"
	"goblog/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "blog_session"

// sessionTTL bounds how long a login stays valid.
const sessionTTL = 24 * time.Hour

type ctxKey struct{}

// Manager issues and verifies session tokens and password hashes.
type Manager struct {
	secret []byte
	store  storage.Storage
}

func NewManager(secret string, store storage.Storage) *Manager {
	return &Manager{secret: []byte(secret), store: store}
}

// HashPassword returns the bcrypt hash to store for a new credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken creates a signed session token for the user.
func (m *Manager) IssueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})
	return token.SignedString(m.secret)
}

// ParseToken validates a session token and returns the user id inside it.
func (m *Manager) ParseToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("empty token")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token missing user_id")
	}
	return userID, nil
}

// SetSession logs the user in by setting the session cookie.
func (m *Manager) SetSession(w http.ResponseWriter, userID string) error {
	token, err := m.IssueToken(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession logs the user out.
func (m *Manager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUser resolves the session cookie to a user and stores it on the
// request context. Anonymous requests pass through untouched.
func (m *Manager) CurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := m.ParseToken(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := m.store.GetUserByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous requests to the login page, carrying the
// original path so login can send the user back.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user on the context, or nil.
func UserFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(ctxKey{}).(*domain.User)
	return user
}
