package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/lib/pq"
)

// PostgresCommentRepo はPostgreSQLを使用したタスクコメントリポジトリ。
// 添付ファイルのパス列はTEXT[]カラムにpq.Arrayで格納する。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// Create はコメントを追記する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_comments (id, task_id, user_id, content, attachments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.TaskID, comment.UserID, comment.Content,
		pq.Array(comment.Attachments), comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// ListByTaskWithAuthor はタスクのコメント一覧を投稿者情報付きで作成日時昇順で返す。
func (r *PostgresCommentRepo) ListByTaskWithAuthor(ctx context.Context, taskID string) ([]CommentWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.task_id, c.user_id, c.content, c.attachments, c.created_at,
		        u.name, u.email
		 FROM task_comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.task_id = $1
		 ORDER BY c.created_at`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var results []CommentWithAuthor
	for rows.Next() {
		var c CommentWithAuthor
		err := rows.Scan(
			&c.ID, &c.TaskID, &c.UserID, &c.Content, pq.Array(&c.Attachments), &c.CreatedAt,
			&c.AuthorName, &c.AuthorEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %w", err)
	}
	return results, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
