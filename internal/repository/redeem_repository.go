package repository

import (
	"context"
	"fmt"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PgRedeemRepository struct {
	db *database.PostgresDB
}

func NewRedeemRepository(db *database.PostgresDB) *PgRedeemRepository {
	return &PgRedeemRepository{db: db}
}

// GetRedeemable retrieves a catalog entry by ID
func (r *PgRedeemRepository) GetRedeemable(ctx context.Context, id string) (*domain.Redeemable, error) {
	var item domain.Redeemable
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, cost, available, created_at
		FROM redeemables
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Cost, &item.Available, &item.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redeemable: %w", err)
	}

	return &item, nil
}

// ListRedeemables retrieves the full catalog
func (r *PgRedeemRepository) ListRedeemables(ctx context.Context) ([]domain.Redeemable, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, cost, available, created_at
		FROM redeemables
		ORDER BY cost, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeemables: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Redeemable, 0)
	for rows.Next() {
		var item domain.Redeemable
		if err := rows.Scan(&item.ID, &item.Name, &item.Cost, &item.Available, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan redeemable: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Redeem re-validates the item, debits the ledger and appends the basket
// entry inside one transaction. The item row is locked so availability
// cannot flip between the check and the commit; either every effect lands
// or none does.
func (r *PgRedeemRepository) Redeem(ctx context.Context, entry *domain.BasketEntry) (int, error) {
	var newBalance int

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var cost int
		var available bool
		err := tx.QueryRow(ctx, `
			SELECT cost, available FROM redeemables WHERE id = $1 FOR UPDATE
		`, entry.RedeemableID).Scan(&cost, &available)
		if err == pgx.ErrNoRows {
			return domain.ErrRedeemableNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock redeemable: %w", err)
		}
		if !available {
			return domain.ErrItemUnavailable
		}

		newBalance, err = debitTx(ctx, tx, entry.UserID, cost)
		if err != nil {
			return err
		}
		entry.PointsSpent = cost

		err = tx.QueryRow(ctx, `
			INSERT INTO basket_entries (id, user_id, redeemable_id, points_spent)
			VALUES ($1, $2, $3, $4)
			RETURNING redeemed_at
		`, entry.ID, entry.UserID, entry.RedeemableID, entry.PointsSpent).Scan(&entry.RedeemedAt)
		if err != nil {
			return fmt.Errorf("failed to insert basket entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

// ListBasket retrieves a user's completed redemptions
func (r *PgRedeemRepository) ListBasket(ctx context.Context, userID string) ([]domain.BasketEntry, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, redeemable_id, points_spent, redeemed_at
		FROM basket_entries
		WHERE user_id = $1
		ORDER BY redeemed_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list basket: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.BasketEntry, 0)
	for rows.Next() {
		var entry domain.BasketEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.RedeemableID, &entry.PointsSpent, &entry.RedeemedAt); err != nil {
			return nil, fmt.Errorf("failed to scan basket entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
