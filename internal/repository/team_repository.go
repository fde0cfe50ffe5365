package repository

import (
	"context"
	"fmt"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PgTeamRepository struct {
	db *database.PostgresDB
}

func NewTeamRepository(db *database.PostgresDB) *PgTeamRepository {
	return &PgTeamRepository{db: db}
}

// teamSelect joins member IDs and the computed points total onto each team.
const teamSelect = `
	SELECT t.id, t.name, t.description, t.admin_id,
	       COALESCE(array_agg(tm.user_id) FILTER (WHERE tm.user_id IS NOT NULL), '{}'),
	       COALESCE(SUM(u.points), 0)::int,
	       t.created_at, t.updated_at
	FROM teams t
	LEFT JOIN team_members tm ON tm.team_id = t.id
	LEFT JOIN users u ON u.id = tm.user_id
`

// Create persists the team, registers the founder as admin and sole member,
// and stamps the founder's team_id, all in one transaction. A membership
// unique violation means the founder joined another team concurrently.
func (r *PgTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO teams (id, name, description, admin_id)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at
		`, team.ID, team.Name, team.Description, team.AdminID).Scan(&team.CreatedAt, &team.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert team: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
		`, team.ID, team.AdminID); err != nil {
			if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == uniqueViolation {
				return domain.ErrAlreadyInTeam
			}
			return fmt.Errorf("failed to insert founder membership: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE users SET team_id = $1, updated_at = now() WHERE id = $2
		`, team.ID, team.AdminID); err != nil {
			return fmt.Errorf("failed to set founder team: %w", err)
		}

		team.Members = []string{team.AdminID}
		return nil
	})
}

// GetByID retrieves a team with its member set and computed total points
func (r *PgTeamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.Pool.QueryRow(ctx, teamSelect+`
		WHERE t.id = $1
		GROUP BY t.id
	`, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.AdminID,
		&team.Members,
		&team.TotalPoints,
		&team.CreatedAt,
		&team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams
func (r *PgTeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.Pool.Query(ctx, teamSelect+`
		GROUP BY t.id
		ORDER BY t.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Description,
			&team.AdminID,
			&team.Members,
			&team.TotalPoints,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// Update applies a patch to the team's mutable fields
func (r *PgTeamRepository) Update(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE teams
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
	`, id, patch.Name, patch.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// Delete removes the team, its memberships and pending requests, and clears
// team_id on every member so no user is left pointing at a dead team.
func (r *PgTeamRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE users SET team_id = NULL, updated_at = now() WHERE team_id = $1
		`, id); err != nil {
			return fmt.Errorf("failed to clear member team ids: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM join_requests WHERE team_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete join requests: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete team: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTeamNotFound
		}
		return nil
	})
}

// RemoveMember detaches a member and clears their team_id in one transaction
func (r *PgTeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
		`, teamID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete membership: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotAMember
		}

		if _, err := tx.Exec(ctx, `
			UPDATE users SET team_id = NULL, updated_at = now()
			WHERE id = $1 AND team_id = $2
		`, userID, teamID); err != nil {
			return fmt.Errorf("failed to clear member team id: %w", err)
		}
		return nil
	})
}
