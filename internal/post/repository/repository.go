package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/post/domain"
)

// Repository defines persistence for posts. Update and Delete are
// scoped by author so ownership is enforced in SQL, not in handlers.
// DeleteByID skips the ownership check and is reserved for admins.
type Repository interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PostWithAuthor, error)
	List(ctx context.Context) ([]*domain.PostWithAuthor, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.PostWithAuthor, error)
	Update(ctx context.Context, id, authorID uuid.UUID, title, content string) (*domain.Post, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}
