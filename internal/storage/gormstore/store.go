package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goblog/internal/domain"
	"goblog/internal/storage"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements the Storage interface on top of GORM. The same store
// serves PostgreSQL in production and SQLite for local files and tests.
type Store struct {
	db *gorm.DB
}

// New opens a database through the given dialector and migrates the schema.
func New(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Tag{}, &domain.Post{}, &domain.Comment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewPostgres opens a PostgreSQL-backed store.
func NewPostgres(dsn string) (*Store, error) {
	return New(postgres.Open(dsn))
}

// NewSQLite opens a SQLite-backed store. Use ":memory:" for a throwaway DB.
func NewSQLite(path string) (*Store, error) {
	return New(sqlite.Open(path))
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// asStorageErr maps gorm's record-not-found onto the storage sentinel.
func asStorageErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrUsernameTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, asStorageErr(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, asStorageErr(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id, username, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return asStorageErr(err)
		}
		var count int64
		if err := tx.Model(&domain.User{}).Where("username = ? AND id <> ?", username, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrUsernameTaken
		}
		user.Username = username
		user.Email = email
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post, tags []string) (*domain.Post, error) {
	post.ID = uuid.NewString()
	post.PublishedDate = time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := resolveTags(tx, tags)
		if err != nil {
			return err
		}
		post.Tags = resolved
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, asStorageErr(err)
	}
	return &post, nil
}

func (s *Store) ListPosts(ctx context.Context, args storage.ListArgs) ([]*domain.Post, int, error) {
	var total int64
	if err := s.listQuery(ctx, args.Tag).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.listQuery(ctx, args.Tag).
		Preload("Author").
		Preload("Tags").
		Order("published_date DESC")
	if args.Limit > 0 {
		query = query.Limit(args.Limit).Offset(args.Offset)
	}

	var posts []*domain.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, int(total), nil
}

// listQuery builds a fresh post listing query, optionally restricted to
// one tag label. Built per call because gorm chains are not reusable
// after a finisher like Count.
func (s *Store) listQuery(ctx context.Context, tag string) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&domain.Post{})
	if tag != "" {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", tag)
	}
	return query
}

func (s *Store) SearchPosts(ctx context.Context, query string) ([]*domain.Post, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	// One pass over posts joined with their tags covers the union of
	// title, content and tag-name matches; DISTINCT drops duplicates
	// from posts matching on several tags.
	var posts []*domain.Post
	err := s.db.WithContext(ctx).
		Model(&domain.Post{}).
		Distinct("posts.*").
		Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id").
		Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(tags.name) LIKE ?",
			pattern, pattern, pattern).
		Order("published_date DESC").
		Preload("Author").
		Preload("Tags").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) UpdatePost(ctx context.Context, id, title, content string, tags []string) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return asStorageErr(err)
		}
		resolved, err := resolveTags(tx, tags)
		if err != nil {
			return err
		}
		if err := tx.Model(&post).Updates(map[string]any{
			"title":   title,
			"content": content,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&post).Association("Tags").Replace(resolved)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPostByID(ctx, id)
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return asStorageErr(err)
		}
		// Cascade: comments go with their post. Done explicitly so the
		// behavior does not depend on dialect-level foreign key support.
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	now := time.Now().UTC()
	comment.ID = uuid.NewString()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return storage.ErrNotFound
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, asStorageErr(err)
	}
	return &comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Preload("Author").
		Find(&comments).Error
	return comments, err
}

func (s *Store) UpdateComment(ctx context.Context, id, content string) (*domain.Comment, error) {
	var comment domain.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			return asStorageErr(err)
		}
		// Update refreshes UpdatedAt through gorm's change tracking.
		return tx.Model(&comment).Update("content", content).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment domain.Comment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			return asStorageErr(err)
		}
		return tx.Delete(&comment).Error
	})
}

// === Helpers ===

// resolveTags maps labels to tag rows, creating unseen labels on the fly.
func resolveTags(tx *gorm.DB, labels []string) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		tag := &domain.Tag{}
		err := tx.Where("name = ?", label).
			Attrs(domain.Tag{ID: uuid.NewString(), Name: label}).
			FirstOrCreate(tag).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
