package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresTeamRepo はPostgreSQLを使用したチームリポジトリ。
type PostgresTeamRepo struct {
	db *sql.DB
}

// NewPostgresTeamRepo はPostgresTeamRepoを生成する。
func NewPostgresTeamRepo(db *sql.DB) *PostgresTeamRepo {
	return &PostgresTeamRepo{db: db}
}

// FindByID は指定IDのチームをメンバー一覧付きで取得する。見つからない場合はnilを返す。
func (r *PostgresTeamRepo) FindByID(ctx context.Context, id string) (*model.Team, error) {
	team := &model.Team{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, owner_id, created_at, updated_at
		 FROM teams WHERE id = $1`,
		id,
	).Scan(&team.ID, &team.Name, &team.Description, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team by ID: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY added_at`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		team.Members = append(team.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team members: %w", err)
	}

	return team, nil
}

// Create はチームを作成する。メンバーは空集合で開始する。
func (r *PostgresTeamRepo) Create(ctx context.Context, team *model.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		team.ID, team.Name, team.Description, team.OwnerID, team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

// AddMember はチームにメンバーを追加する。
// (team_id, user_id)の主キー制約により重複追加はエラーになる。
func (r *PostgresTeamRepo) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`,
		teamID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TeamRepository = (*PostgresTeamRepo)(nil)
