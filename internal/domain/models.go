package domain

import "time"

// User is a registered account. Passwords are stored as bcrypt hashes.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(254);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
}

// Post is a blog entry. The author is set at creation and never changes.
type Post struct {
	ID            string     `json:"id" gorm:"type:uuid;primary_key"`
	Title         string     `json:"title" gorm:"type:varchar(100);not null"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	AuthorID      string     `json:"authorId" gorm:"type:uuid;not null;index"`
	Author        *User      `json:"-" gorm:"foreignKey:AuthorID"`
	PublishedDate time.Time  `json:"publishedDate" gorm:"not null;index"`
	Tags          []*Tag     `json:"tags" gorm:"many2many:post_tags"`
	Comments      []*Comment `json:"-" gorm:"foreignKey:PostID"` // gorm only
}

// Comment belongs to exactly one post and one author.
type Comment struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;index"`
	AuthorID  string    `json:"authorId" gorm:"type:uuid;not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

// Tag is a free-text label attached to posts through the post_tags join table.
// Labels are case-sensitive and have no lifecycle of their own.
type Tag struct {
	ID   string `json:"id" gorm:"type:uuid;primary_key"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Owned is anything with a single owning author.
type Owned interface {
	OwnerID() string
}

func (p *Post) OwnerID() string { return p.AuthorID }

func (c *Comment) OwnerID() string { return c.AuthorID }

// CanMutate reports whether the given user may update or delete the entity.
// Only the owning author may mutate, and anonymous users never can.
func CanMutate(userID string, entity Owned) bool {
	return userID != "" && userID == entity.OwnerID()
}
