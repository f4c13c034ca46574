package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contentColumns = `id, kind, title, body, slug, workshop_id, author_id, starts_at, ends_at, status, published_at, created_at, updated_at`

type ContentRepository struct {
	*base.Repository
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новость, событие, воркшоп или сессию
func (r *ContentRepository) Create(ctx context.Context, c *model.Content) error {
	query := `
		INSERT INTO content_items (kind, title, body, slug, workshop_id, author_id, starts_at, ends_at, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		c.Kind,
		c.Title,
		c.Body,
		c.Slug,
		c.WorkshopID,
		c.AuthorID,
		c.StartsAt,
		c.EndsAt,
		c.Status,
		c.PublishedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "content_items_kind_slug_key") {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("create content: %w", err)
	}

	return nil
}

// Update обновляет запись целиком
func (r *ContentRepository) Update(ctx context.Context, c *model.Content) error {
	query := `
		UPDATE content_items
		SET title = $1, body = $2, slug = $3, workshop_id = $4, starts_at = $5, ends_at = $6,
		    status = $7, published_at = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		c.Title,
		c.Body,
		c.Slug,
		c.WorkshopID,
		c.StartsAt,
		c.EndsAt,
		c.Status,
		c.PublishedAt,
		c.ID,
	).Scan(&c.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return model.ErrContentNotFound
		}
		if base.IsUniqueViolation(err, "content_items_kind_slug_key") {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("update content: %w", err)
	}

	return nil
}

// Delete удаляет запись, сессии воркшопа удаляются каскадом
func (r *ContentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}

	if affected == 0 {
		return model.ErrContentNotFound
	}

	return nil
}

// GetByID получает запись по ID
func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*model.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1`

	c, err := scanContent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get content by id: %w", err)
	}

	return c, nil
}

// List получает страницу записей по виду и статусу
func (r *ContentRepository) List(ctx context.Context, filter model.ContentFilter) ([]*model.Content, int, error) {
	where := `($1 = '' OR kind = $1) AND ($2 = '' OR status = $2)`
	args := []interface{}{string(filter.Kind), string(filter.Status)}

	var total int
	if err := r.QueryRow(ctx, `SELECT COUNT(*) FROM content_items WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM content_items
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT %d OFFSET %d
	`, contentColumns, where, filter.Page.Limit, filter.Page.Offset())

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, c)
	}

	return items, total, rows.Err()
}

func scanContent(row base.Scanner) (*model.Content, error) {
	var c model.Content
	err := row.Scan(
		&c.ID,
		&c.Kind,
		&c.Title,
		&c.Body,
		&c.Slug,
		&c.WorkshopID,
		&c.AuthorID,
		&c.StartsAt,
		&c.EndsAt,
		&c.Status,
		&c.PublishedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
