package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"goblog/internal/domain"
	"goblog/internal/storage"

	"github.com/google/uuid"
)

// Store implements the Storage interface in memory. It backs the handler
// tests and the zero-setup dev mode.
type Store struct {
	mu             sync.RWMutex
	users          map[string]*domain.User
	usersByName    map[string]string // username -> userID
	posts          map[string]*domain.Post
	comments       map[string]*domain.Comment
	commentsByPost map[string][]string // postID -> []commentID
	tagsByName     map[string]*domain.Tag
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:          make(map[string]*domain.User),
		usersByName:    make(map[string]string),
		posts:          make(map[string]*domain.Post),
		comments:       make(map[string]*domain.Comment),
		commentsByPost: make(map[string][]string),
		tagsByName:     make(map[string]*domain.Tag),
	}
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByName[user.Username]; taken {
		return nil, storage.ErrUsernameTaken
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	s.usersByName[user.Username] = user.ID
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) UpdateUser(ctx context.Context, id, username, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if other, taken := s.usersByName[username]; taken && other != id {
		return nil, storage.ErrUsernameTaken
	}
	delete(s.usersByName, user.Username)
	user.Username = username
	user.Email = email
	s.usersByName[username] = id
	return user, nil
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post, tags []string) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = uuid.NewString()
	post.PublishedDate = time.Now().UTC()
	post.Author = s.users[post.AuthorID]
	post.Tags = s.resolveTags(tags)
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return post, nil
}

func (s *Store) ListPosts(ctx context.Context, args storage.ListArgs) ([]*domain.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if args.Tag != "" && !hasTag(p, args.Tag) {
			continue
		}
		all = append(all, p)
	}
	sortNewestFirst(all)

	total := len(all)
	if args.Limit <= 0 {
		return all, total, nil
	}
	start := args.Offset
	if start >= len(all) {
		return []*domain.Post{}, total, nil
	}
	end := start + args.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *Store) SearchPosts(ctx context.Context, query string) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	results := make([]*domain.Post, 0)
	for _, p := range s.posts {
		if matchesQuery(p, needle) {
			results = append(results, p)
		}
	}
	sortNewestFirst(results)
	return results, nil
}

func (s *Store) UpdatePost(ctx context.Context, id, title, content string, tags []string) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	post.Title = title
	post.Content = content
	post.Tags = s.resolveTags(tags)
	return post, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	// Cascade: a deleted post takes all of its comments with it.
	for _, commentID := range s.commentsByPost[id] {
		delete(s.comments, commentID)
	}
	delete(s.commentsByPost, id)
	return nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, storage.ErrNotFound
	}

	now := time.Now().UTC()
	comment.ID = uuid.NewString()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.Author = s.users[comment.AuthorID]
	s.comments[comment.ID] = comment
	s.commentsByPost[comment.PostID] = append(s.commentsByPost[comment.PostID], comment.ID)
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.commentsByPost[postID]
	comments := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			comments = append(comments, c)
		}
	}
	// Oldest first, so threads read top to bottom.
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (s *Store) UpdateComment(ctx context.Context, id, content string) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	return comment, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.comments, id)
	ids := s.commentsByPost[comment.PostID]
	for i, cid := range ids {
		if cid == id {
			s.commentsByPost[comment.PostID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Close() error { return nil }

// === Helpers ===

// resolveTags maps labels to tag entities, creating unseen ones.
// Caller must hold the write lock.
func (s *Store) resolveTags(labels []string) []*domain.Tag {
	tags := make([]*domain.Tag, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		tag, ok := s.tagsByName[label]
		if !ok {
			tag = &domain.Tag{ID: uuid.NewString(), Name: label}
			s.tagsByName[label] = tag
		}
		tags = append(tags, tag)
	}
	return tags
}

func hasTag(post *domain.Post, label string) bool {
	for _, t := range post.Tags {
		if t.Name == label {
			return true
		}
	}
	return false
}

func matchesQuery(post *domain.Post, needle string) bool {
	if strings.Contains(strings.ToLower(post.Title), needle) ||
		strings.Contains(strings.ToLower(post.Content), needle) {
		return true
	}
	for _, t := range post.Tags {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return true
		}
	}
	return false
}

func sortNewestFirst(posts []*domain.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PublishedDate.Equal(posts[j].PublishedDate) {
			return posts[i].PublishedDate.After(posts[j].PublishedDate)
		}
		return posts[i].ID < posts[j].ID
	})
}
