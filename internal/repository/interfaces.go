// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskdeck/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。
	// 大文字小文字を区別する完全一致で検索し、見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// MarkVerified は確認コードをクリアし、検証済みフラグを設定する。
	MarkVerified(ctx context.Context, id string) error
}

// TeamRepository はチームデータの永続化インターフェース。
type TeamRepository interface {
	// FindByID は指定IDのチームをメンバー一覧付きで取得する。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Team, error)

	// Create はチームを作成する。メンバーは空集合で開始する。
	Create(ctx context.Context, team *model.Team) error

	// AddMember はチームにメンバーを追加する。
	// 主キー制約により重複追加はエラーになる。
	AddMember(ctx context.Context, teamID, userID string) error
}

// InvitationRepository はチーム招待の永続化インターフェース。
type InvitationRepository interface {
	// FindByID は指定IDの招待を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Invitation, error)

	// FindPending は（送信者、受信者、チーム）の組でpendingの招待を検索する。
	// 見つからない場合はnilを返す。
	FindPending(ctx context.Context, senderID, receiverID, teamID string) (*model.Invitation, error)

	// Create は招待を作成する。
	Create(ctx context.Context, inv *model.Invitation) error

	// DeleteByID は指定IDの招待を削除する。存在しない場合もエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// UpdateStatus はタスクの状態を更新する。
	UpdateStatus(ctx context.Context, id string, status model.TaskStatus) error

	// DeleteByID は指定IDのタスクを削除する。
	// 関連するtask_commentsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error

	// ListPersonal はチームに属さないタスクのうち、指定ユーザーが
	// 作成者または担当者のものを作成日時降順で返す。
	ListPersonal(ctx context.Context, userID string) ([]TaskWithRefs, error)

	// ListAssigned はチームの有無を問わず指定ユーザーが担当のタスクを返す。
	ListAssigned(ctx context.Context, userID string) ([]TaskWithRefs, error)

	// ListByTeam は指定チーム配下の全タスクを返す。
	ListByTeam(ctx context.Context, teamID string) ([]TaskWithRefs, error)
}

// CommentRepository はタスクコメントの永続化インターフェース。
type CommentRepository interface {
	// Create はコメントを追記する。コメント列は追記専用。
	Create(ctx context.Context, comment *model.Comment) error

	// ListByTaskWithAuthor はタスクのコメント一覧を投稿者情報付きで
	// 作成日時昇順で返す。
	ListByTaskWithAuthor(ctx context.Context, taskID string) ([]CommentWithAuthor, error)
}

// TaskWithRefs はタスクと参照先（作成者、担当者、チーム）の表示情報を
// 結合した構造体。
type TaskWithRefs struct {
	model.Task
	CreatorName   string
	CreatorEmail  string
	AssigneeName  string
	AssigneeEmail string
	TeamName      string
}

// CommentWithAuthor はコメントと投稿者の表示情報を結合した構造体。
type CommentWithAuthor struct {
	model.Comment
	AuthorName  string
	AuthorEmail string
}
