package repository

import (
	"context"
	"fmt"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PgUserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *PgUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, username, email, points, team_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Points,
		&user.TeamID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetBalance retrieves the user's current point balance
func (r *PgUserRepository) GetBalance(ctx context.Context, id string) (int, error) {
	var points int
	err := r.db.Pool.QueryRow(ctx, `SELECT points FROM users WHERE id = $1`, id).Scan(&points)
	if err == pgx.ErrNoRows {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return points, nil
}

// ListByTeam retrieves all members of a team
func (r *PgUserRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.User, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT u.id, u.username, u.email, u.points, u.team_id, u.created_at, u.updated_at
		FROM users u
		JOIN team_members tm ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Points,
			&user.TeamID,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// debitTx applies a conditional debit inside an existing transaction. The
// row predicate guarantees the balance never goes negative; zero rows means
// the user is missing or cannot afford the amount.
func debitTx(ctx context.Context, tx pgx.Tx, userID string, amount int) (int, error) {
	var newBalance int
	err := tx.QueryRow(ctx, `
		UPDATE users
		SET points = points - $2, updated_at = now()
		WHERE id = $1 AND points >= $2
		RETURNING points
	`, userID, amount).Scan(&newBalance)

	if err == pgx.ErrNoRows {
		var exists bool
		if checkErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
		).Scan(&exists); checkErr != nil {
			return 0, fmt.Errorf("failed to check user: %w", checkErr)
		}
		if !exists {
			return 0, domain.ErrUserNotFound
		}
		return 0, domain.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit user: %w", err)
	}

	return newBalance, nil
}
