package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, due_date, status, priority, created_by, assigned_to, team_id, created_at, updated_at
		 FROM tasks WHERE id = $1`,
		id,
	).Scan(
		&task.ID, &task.Title, &task.Description, &task.DueDate, &task.Status,
		&task.Priority, &task.CreatedBy, &task.AssignedTo, &task.TeamID,
		&task.CreatedAt, &task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return task, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, due_date, status, priority, created_by, assigned_to, team_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID, task.Title, task.Description, task.DueDate, task.Status,
		task.Priority, task.CreatedBy, task.AssignedTo, task.TeamID,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// UpdateStatus はタスクの状態を更新する。
func (r *PostgresTaskRepo) UpdateStatus(ctx context.Context, id string, status model.TaskStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

// DeleteByID は指定IDのタスクを削除する。関連コメントはCASCADE削除される。
func (r *PostgresTaskRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

// taskWithRefsQuery はタスクと参照先の表示情報をJOINで取得する共通クエリ。
const taskWithRefsQuery = `
SELECT t.id, t.title, t.description, t.due_date, t.status, t.priority,
       t.created_by, t.assigned_to, t.team_id, t.created_at, t.updated_at,
       c.name, c.email,
       COALESCE(a.name, ''), COALESCE(a.email, ''),
       COALESCE(tm.name, '')
FROM tasks t
JOIN users c ON c.id = t.created_by
LEFT JOIN users a ON a.id = t.assigned_to
LEFT JOIN teams tm ON tm.id = t.team_id
`

// ListPersonal はチームに属さないタスクのうち、指定ユーザーが
// 作成者または担当者のものを作成日時降順で返す。
func (r *PostgresTaskRepo) ListPersonal(ctx context.Context, userID string) ([]TaskWithRefs, error) {
	rows, err := r.db.QueryContext(ctx,
		taskWithRefsQuery+`
		WHERE t.team_id IS NULL AND (t.created_by = $1 OR t.assigned_to = $1)
		ORDER BY t.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal tasks: %w", err)
	}
	return scanTaskWithRefsRows(rows)
}

// ListAssigned はチームの有無を問わず指定ユーザーが担当のタスクを返す。
func (r *PostgresTaskRepo) ListAssigned(ctx context.Context, userID string) ([]TaskWithRefs, error) {
	rows, err := r.db.QueryContext(ctx,
		taskWithRefsQuery+`
		WHERE t.assigned_to = $1
		ORDER BY t.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return scanTaskWithRefsRows(rows)
}

// ListByTeam は指定チーム配下の全タスクを返す。
func (r *PostgresTaskRepo) ListByTeam(ctx context.Context, teamID string) ([]TaskWithRefs, error) {
	rows, err := r.db.QueryContext(ctx,
		taskWithRefsQuery+`
		WHERE t.team_id = $1
		ORDER BY t.created_at DESC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list team tasks: %w", err)
	}
	return scanTaskWithRefsRows(rows)
}

// scanTaskWithRefsRows はtaskWithRefsQueryの結果行をスキャンする。
func scanTaskWithRefsRows(rows *sql.Rows) ([]TaskWithRefs, error) {
	defer rows.Close()

	var results []TaskWithRefs
	for rows.Next() {
		var t TaskWithRefs
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.Priority,
			&t.CreatedBy, &t.AssignedTo, &t.TeamID, &t.CreatedAt, &t.UpdatedAt,
			&t.CreatorName, &t.CreatorEmail,
			&t.AssigneeName, &t.AssigneeEmail,
			&t.TeamName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return results, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
