package repository

import (
	"context"
	"fmt"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PgJoinRequestRepository struct {
	db *database.PostgresDB
}

func NewJoinRequestRepository(db *database.PostgresDB) *PgJoinRequestRepository {
	return &PgJoinRequestRepository{db: db}
}

// Create persists a new pending join request. The partial unique index on
// pending (team_id, user_id) pairs makes concurrent duplicates race-safe.
func (r *PgJoinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO join_requests (id, team_id, user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING requested_at
	`, req.ID, req.TeamID, req.UserID, req.Status).Scan(&req.RequestedAt)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateRequest
		}
		return fmt.Errorf("failed to create join request: %w", err)
	}
	return nil
}

// Get retrieves the most recent join request for a (team, user) pair
func (r *PgJoinRequestRepository) Get(ctx context.Context, teamID, userID string) (*domain.JoinRequest, error) {
	var req domain.JoinRequest
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, team_id, user_id, status, requested_at, resolved_at
		FROM join_requests
		WHERE team_id = $1 AND user_id = $2
		ORDER BY requested_at DESC
		LIMIT 1
	`, teamID, userID).Scan(
		&req.ID,
		&req.TeamID,
		&req.UserID,
		&req.Status,
		&req.RequestedAt,
		&req.ResolvedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}

	return &req, nil
}

// ListPending retrieves all pending requests for a team
func (r *PgJoinRequestRepository) ListPending(ctx context.Context, teamID string) ([]domain.JoinRequest, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, team_id, user_id, status, requested_at, resolved_at
		FROM join_requests
		WHERE team_id = $1 AND status = $2
		ORDER BY requested_at
	`, teamID, domain.JoinRequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.JoinRequest, 0)
	for rows.Next() {
		var req domain.JoinRequest
		if err := rows.Scan(
			&req.ID,
			&req.TeamID,
			&req.UserID,
			&req.Status,
			&req.RequestedAt,
			&req.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan join request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Accept flips the pending request to accepted and applies the membership in
// the same transaction: team_members row plus the user's team_id stamp. The
// status predicate makes concurrent resolutions first-wins.
func (r *PgJoinRequestRepository) Accept(ctx context.Context, teamID, userID string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.resolveTx(ctx, tx, teamID, userID, domain.JoinRequestAccepted); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
		`, teamID, userID); err != nil {
			if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == uniqueViolation {
				return domain.ErrAlreadyMember
			}
			return fmt.Errorf("failed to insert membership: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE users SET team_id = $1, updated_at = now() WHERE id = $2
		`, teamID, userID); err != nil {
			return fmt.Errorf("failed to set user team: %w", err)
		}
		return nil
	})
}

// Deny flips the pending request to denied with no membership change
func (r *PgJoinRequestRepository) Deny(ctx context.Context, teamID, userID string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return r.resolveTx(ctx, tx, teamID, userID, domain.JoinRequestDenied)
	})
}

// resolveTx transitions the pair's pending request to a terminal status.
// Zero rows touched means either no request exists or it was resolved first.
func (r *PgJoinRequestRepository) resolveTx(ctx context.Context, tx pgx.Tx, teamID, userID string, status domain.JoinRequestStatus) error {
	tag, err := tx.Exec(ctx, `
		UPDATE join_requests
		SET status = $3, resolved_at = now()
		WHERE team_id = $1 AND user_id = $2 AND status = $4
	`, teamID, userID, status, domain.JoinRequestPending)
	if err != nil {
		return fmt.Errorf("failed to resolve join request: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM join_requests WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check join request: %w", err)
	}
	if exists {
		return domain.ErrAlreadyResolved
	}
	return domain.ErrNoSuchRequest
}
