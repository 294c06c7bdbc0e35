package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/post/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a post repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postWithAuthorQuery = `
	SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at, u.name
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// Create persists the post. The post must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Title, p.Content, p.AuthorID, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetByID returns the post with its author name, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PostWithAuthor, error) {
	row := r.db.QueryRowContext(ctx, postWithAuthorQuery+` WHERE p.id = $1`, id)
	p, err := scanPostWithAuthor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns all posts with author names, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.PostWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx, postWithAuthorQuery+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListByAuthor returns the author's posts, newest first.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.PostWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		postWithAuthorQuery+` WHERE p.author_id = $1 ORDER BY p.created_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Update sets title and content on the post owned by authorID and
// returns the updated row, or nil when no row matched (missing post or
// wrong owner).
func (r *PostgresRepository) Update(ctx context.Context, id, authorID uuid.UUID, title, content string) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE posts SET title = $3, content = $4, updated_at = $5
		 WHERE id = $1 AND author_id = $2
		 RETURNING id, title, content, author_id, created_at, updated_at`,
		id, authorID, title, content, time.Now().UTC())

	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the post owned by authorID and reports whether a row
// was deleted. A false result means a missing post or wrong owner.
func (r *PostgresRepository) Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByID removes a post regardless of owner. Admin-only callers.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostWithAuthor(row rowScanner) (*domain.PostWithAuthor, error) {
	var p domain.PostWithAuthor
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt, &p.AuthorName); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows *sql.Rows) ([]*domain.PostWithAuthor, error) {
	var posts []*domain.PostWithAuthor
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
