package models

import (
	"time"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:varchar(25)" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// BeforeCreate hook to generate CUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = cuid.New()
	}
	return nil
}

type Post struct {
	ID           string         `gorm:"primaryKey;type:varchar(25)" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Excerpt      string         `gorm:"type:text" json:"excerpt"` // Manual excerpt, empty when not written
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Published    bool           `gorm:"default:false;index" json:"published"`
	CommentCount int            `gorm:"default:0" json:"comment_count"`
	Views        int            `gorm:"default:0" json:"views"`
	AuthorID     string         `gorm:"type:varchar(25);not null" json:"author_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author     User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags       []Tag      `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Categories []Category `gorm:"many2many:post_categories" json:"categories,omitempty"`
	Comments   []Comment  `gorm:"foreignKey:PostID" json:"-"`
}

// BeforeCreate hook to generate CUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = cuid.New()
	}
	return nil
}

type Tag struct {
	ID   string `gorm:"primaryKey;type:varchar(25)" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

// BeforeCreate hook to generate CUID
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = cuid.New()
	}
	return nil
}

// Category files posts; a post may sit in several.
type Category struct {
	ID   string `gorm:"primaryKey;type:varchar(25)" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

// BeforeCreate hook to generate CUID
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = cuid.New()
	}
	return nil
}

// Comment is a reader comment on a post. Content is plain text.
type Comment struct {
	ID          string         `gorm:"primaryKey;type:varchar(25)" json:"id"`
	PostID      string         `gorm:"type:varchar(25);not null;index" json:"post_id"`
	AuthorName  string         `gorm:"not null" json:"author_name"`
	AuthorEmail string         `gorm:"not null" json:"-"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

// BeforeCreate hook to generate CUID
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = cuid.New()
	}
	return nil
}

// Option is one stored settings record. Value holds JSON.
type Option struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
