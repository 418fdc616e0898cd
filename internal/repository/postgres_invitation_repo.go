package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresInvitationRepo はPostgreSQLを使用した招待リポジトリ。
type PostgresInvitationRepo struct {
	db *sql.DB
}

// NewPostgresInvitationRepo はPostgresInvitationRepoを生成する。
func NewPostgresInvitationRepo(db *sql.DB) *PostgresInvitationRepo {
	return &PostgresInvitationRepo{db: db}
}

const invitationColumns = `id, team_id, sender_id, receiver_id, status, created_at, updated_at`

// FindByID は指定IDの招待を取得する。見つからない場合はnilを返す。
func (r *PostgresInvitationRepo) FindByID(ctx context.Context, id string) (*model.Invitation, error) {
	inv := &model.Invitation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`,
		id,
	).Scan(&inv.ID, &inv.TeamID, &inv.SenderID, &inv.ReceiverID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invitation by ID: %w", err)
	}
	return inv, nil
}

// FindPending は（送信者、受信者、チーム）の組でpendingの招待を検索する。
// 見つからない場合はnilを返す。
func (r *PostgresInvitationRepo) FindPending(ctx context.Context, senderID, receiverID, teamID string) (*model.Invitation, error) {
	inv := &model.Invitation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE sender_id = $1 AND receiver_id = $2 AND team_id = $3 AND status = 'pending'`,
		senderID, receiverID, teamID,
	).Scan(&inv.ID, &inv.TeamID, &inv.SenderID, &inv.ReceiverID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invitation: %w", err)
	}
	return inv, nil
}

// Create は招待を作成する。
func (r *PostgresInvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, team_id, sender_id, receiver_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.TeamID, inv.SenderID, inv.ReceiverID, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの招待を削除する。存在しない場合もエラーにしない。
func (r *PostgresInvitationRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return nil
}

// compile-time interface check
var _ InvitationRepository = (*PostgresInvitationRepo)(nil)
