package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchaseRepository struct {
	*base.Repository
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет покупку с зафиксированной ценой
func (r *PurchaseRepository) Create(ctx context.Context, p *model.Purchase) error {
	query := `
		INSERT INTO purchases (user_id, item_type, item_id, base_price, coupon_code, discount, final_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		p.UserID,
		p.ItemType,
		p.ItemID,
		p.BasePrice,
		p.CouponCode,
		p.Discount,
		p.FinalPrice,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}

	return nil
}

// ListByUser получает покупки пользователя
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Purchase, error) {
	query := `
		SELECT id, user_id, item_type, item_id, base_price, coupon_code, discount, final_price, status, created_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*model.Purchase, 0)
	for rows.Next() {
		var p model.Purchase
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ItemType,
			&p.ItemID,
			&p.BasePrice,
			&p.CouponCode,
			&p.Discount,
			&p.FinalPrice,
			&p.Status,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, &p)
	}

	return purchases, rows.Err()
}
