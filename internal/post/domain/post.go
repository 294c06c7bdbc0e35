package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post is a blog post authored by a user.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  uuid.UUID `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostWithAuthor is a post joined with its author's display name, used
// by list and detail responses.
type PostWithAuthor struct {
	Post
	AuthorName string `json:"authorName"`
}

// Validate checks the fields required to persist a post.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("content is required")
	}
	if p.AuthorID == uuid.Nil {
		return errors.New("author is required")
	}
	return nil
}
