package inmemory

import (
	"context"
	"testing"
	"time"

	"goblog/internal/domain"
	"goblog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store with one user for tests.
func newTestStore(t *testing.T) (*Store, *domain.User) {
	t.Helper()
	store := New()
	user, err := store.CreateUser(context.Background(), &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return store, user
}

func TestStore_CreateAndGetPost(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{
		Title:    "First Post",
		Content:  "Hello world",
		AuthorID: user.ID,
	}, []string{"go", "web"})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.PublishedDate.IsZero())

	retrieved, err := store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Post", retrieved.Title)
	assert.Equal(t, user.ID, retrieved.AuthorID)
	assert.Len(t, retrieved.Tags, 2)

	_, err = store.GetPostByID(ctx, "non-existent-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_DuplicateUsername(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, &domain.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	bob, err := store.CreateUser(ctx, &domain.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = store.UpdateUser(ctx, bob.ID, "alice", "bob@example.com")
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestStore_UpdateUser_FreesOldUsername(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpdateUser(ctx, user.ID, "alice2", "alice@example.com")
	require.NoError(t, err)

	_, err = store.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	found, err := store.GetUserByUsername(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestStore_ListPosts_OrderAndPagination(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := store.CreatePost(ctx, &domain.Post{
			Title:    "Post",
			Content:  "Content",
			AuthorID: user.ID,
		}, nil)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	firstPage, total, err := store.ListPosts(ctx, storage.ListArgs{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, firstPage, 5)
	for i := 1; i < len(firstPage); i++ {
		assert.False(t, firstPage[i].PublishedDate.After(firstPage[i-1].PublishedDate),
			"posts must be ordered newest first")
	}

	secondPage, _, err := store.ListPosts(ctx, storage.ListArgs{Limit: 5, Offset: 5})
	require.NoError(t, err)
	assert.Len(t, secondPage, 2)
	assert.NotEqual(t, firstPage[0].ID, secondPage[0].ID)
}

func TestStore_ListPosts_TagFilter(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	tagged, err := store.CreatePost(ctx, &domain.Post{Title: "Tagged", Content: "x", AuthorID: user.ID}, []string{"go"})
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, &domain.Post{Title: "Plain", Content: "x", AuthorID: user.ID}, nil)
	require.NoError(t, err)

	posts, total, err := store.ListPosts(ctx, storage.ListArgs{Tag: "go", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, tagged.ID, posts[0].ID)

	// Tag labels are case-sensitive.
	_, total, err = store.ListPosts(ctx, storage.ListArgs{Tag: "Go", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestStore_SearchPosts_UnionDeduplicated(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	// Matches on title AND tag; must appear exactly once.
	both, err := store.CreatePost(ctx, &domain.Post{Title: "Hello Gophers", Content: "x", AuthorID: user.ID}, []string{"hello"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	byContent, err := store.CreatePost(ctx, &domain.Post{Title: "Other", Content: "say hello to search", AuthorID: user.ID}, nil)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	byTag, err := store.CreatePost(ctx, &domain.Post{Title: "Third", Content: "x", AuthorID: user.ID}, []string{"say-HELLO"})
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, &domain.Post{Title: "Unrelated", Content: "x", AuthorID: user.ID}, nil)
	require.NoError(t, err)

	results, err := store.SearchPosts(ctx, "hello")
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Newest first.
	assert.Equal(t, byTag.ID, results[0].ID)
	assert.Equal(t, byContent.ID, results[1].ID)
	assert.Equal(t, both.ID, results[2].ID)
}

func TestStore_Comments_OrderedOldestFirst(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Title: "P", Content: "x", AuthorID: user.ID}, nil)
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: user.ID, Content: content})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	comments, err := store.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
}

func TestStore_CreateComment_PostMissing(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateComment(ctx, &domain.Comment{PostID: "missing", AuthorID: user.ID, Content: "hi"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UpdateComment_RefreshesUpdatedAt(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Title: "P", Content: "x", AuthorID: user.ID}, nil)
	require.NoError(t, err)
	comment, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: user.ID, Content: "before"})
	require.NoError(t, err)

	created := comment.CreatedAt
	time.Sleep(10 * time.Millisecond)

	updated, err := store.UpdateComment(ctx, comment.ID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Content)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
}

func TestStore_DeletePost_CascadesComments(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Title: "P", Content: "x", AuthorID: user.ID}, nil)
	require.NoError(t, err)
	comment, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: user.ID, Content: "c"})
	require.NoError(t, err)

	require.NoError(t, store.DeletePost(ctx, post.ID))

	_, err = store.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetCommentByID(ctx, comment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	comments, err := store.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestStore_DeleteComment(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Title: "P", Content: "x", AuthorID: user.ID}, nil)
	require.NoError(t, err)
	keep, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: user.ID, Content: "keep"})
	require.NoError(t, err)
	drop, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: user.ID, Content: "drop"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteComment(ctx, drop.ID))

	comments, err := store.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	assert.ErrorIs(t, store.DeleteComment(ctx, drop.ID), storage.ErrNotFound)
}

func TestStore_UpdatePost_ReplacesTags(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &domain.Post{Title: "P", Content: "x", AuthorID: user.ID}, []string{"old"})
	require.NoError(t, err)

	updated, err := store.UpdatePost(ctx, post.ID, "P2", "y", []string{"new", "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "P2", updated.Title)
	assert.Equal(t, user.ID, updated.AuthorID, "author must never change")

	names := make([]string, 0, len(updated.Tags))
	for _, tag := range updated.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"new", "fresh"}, names)
}
