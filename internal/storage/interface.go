package storage

import (
	"context"
	"errors"

	"goblog/internal/domain"
)

// ErrNotFound is returned when an entity id does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when a username is already registered.
var ErrUsernameTaken = errors.New("username already taken")

// ListArgs holds offset pagination arguments for post listings.
// A Limit <= 0 disables the limit. Tag restricts the listing to posts
// carrying that exact label.
type ListArgs struct {
	Tag    string
	Limit  int
	Offset int
}

// Storage is the contract every backend implements. All reads return
// ErrNotFound on a missing id; ownership checks live in the handlers,
// not here.
type Storage interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, id, username, email string) (*domain.User, error)

	CreatePost(ctx context.Context, post *domain.Post, tags []string) (*domain.Post, error)
	GetPostByID(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context, args ListArgs) ([]*domain.Post, int, error)
	SearchPosts(ctx context.Context, query string) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, id, title, content string, tags []string) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error

	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, id string) error

	Close() error
}
