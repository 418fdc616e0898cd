// Package task はタスクのCRUD、一覧取得、状態遷移、コメント付与の
// ドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/taskdeck/internal/access"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
	"github.com/hitoshi/taskdeck/internal/security"
)

// Service はタスク管理のサービス層。
type Service struct {
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository
	teamRepo    repository.TeamRepository
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	teamRepo repository.TeamRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		teamRepo:    teamRepo,
		sanitizer:   sanitizer,
	}
}

// CreateTaskInput はタスク作成の入力。
// AssignedToとTeamIDは任意で、どちらもnilの場合は個人タスクになる。
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	AssignedTo  *string
	TeamID      *string
}

// CreateTask はタスクを作成する。状態はopen、優先度はmediumで開始する。
// タイトルと説明はサニタイズしてから保存する。
func (s *Service) CreateTask(ctx context.Context, actorID string, in CreateTaskInput) (*model.Task, error) {
	now := time.Now()
	task := &model.Task{
		ID:          uuid.New().String(),
		Title:       s.sanitizer.Sanitize(in.Title),
		Description: s.sanitizer.Sanitize(in.Description),
		DueDate:     in.DueDate,
		Status:      model.TaskStatusOpen,
		Priority:    model.TaskPriorityMedium,
		CreatedBy:   actorID,
		AssignedTo:  in.AssignedTo,
		TeamID:      in.TeamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("created_by", actorID),
	)
	return task, nil
}

// ListTasks はフィルタに応じたタスク一覧を返す。
//   - personal: チームに属さないタスクのうち、自分が作成者または担当者のもの
//   - assigned: チームの有無を問わず自分が担当のもの
//   - team: 指定チーム配下の全タスク。閲覧できるのはチームのオーナーのみ
func (s *Service) ListTasks(ctx context.Context, actorID, filter, teamID string) ([]repository.TaskWithRefs, error) {
	switch model.TaskFilter(filter) {
	case model.TaskFilterPersonal:
		tasks, err := s.taskRepo.ListPersonal(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
		}
		return tasks, nil

	case model.TaskFilterAssigned:
		tasks, err := s.taskRepo.ListAssigned(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
		}
		return tasks, nil

	case model.TaskFilterTeam:
		if teamID == "" {
			return nil, model.NewInvalidFilterError(filter)
		}
		team, err := s.teamRepo.FindByID(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
		}
		if team == nil {
			return nil, model.NewTeamNotFoundError(teamID)
		}
		if !access.CanViewTeamTasks(actorID, team) {
			return nil, model.NewNotAuthorizedError("チームのタスク一覧を閲覧できるのはオーナーのみです")
		}
		tasks, err := s.taskRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
		}
		return tasks, nil

	default:
		return nil, model.NewInvalidFilterError(filter)
	}
}

// ChangeStatus はタスクの状態を更新する。
// 状態値の検証のみを行い、作成者・担当者・チームの関係による
// 認可チェックは行わない。認証済みの任意のユーザーが変更できる。
func (s *Service) ChangeStatus(ctx context.Context, actorID, taskID, status string) (*model.Task, error) {
	if !model.ValidTaskStatus(status) {
		return nil, model.NewInvalidStatusError(status)
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, model.TaskStatus(status)); err != nil {
		return nil, fmt.Errorf("タスク状態の更新に失敗しました: %w", err)
	}

	task.Status = model.TaskStatus(status)
	task.UpdatedAt = time.Now()

	slog.Info("task status changed",
		slog.String("task_id", taskID),
		slog.String("status", status),
		slog.String("changed_by", actorID),
	)
	return task, nil
}

// DeleteTask はタスクを削除する。
// 個人タスクは作成者のみ、チームタスクはチームのオーナーのみが削除できる。
// 関連するコメントと添付ファイル参照も削除される。
func (s *Service) DeleteTask(ctx context.Context, actorID, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return model.NewTaskNotFoundError(taskID)
	}

	team, err := s.loadTaskTeam(ctx, task)
	if err != nil {
		return err
	}

	if !access.CanDeleteTask(actorID, task, team) {
		return model.NewNotAuthorizedError("このタスクを削除する権限がありません")
	}

	if err := s.taskRepo.DeleteByID(ctx, taskID); err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}

	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("deleted_by", actorID),
	)
	return nil
}

// CommentOnTask はタスクにコメントを追記し、追記後のコメント一覧を
// 投稿者情報付きで返す。attachmentsには保存済み添付ファイルの
// 参照パスを渡す。
// チームタスクはオーナーまたはメンバー、個人タスクは作成者または
// 担当者のみがコメントできる。
func (s *Service) CommentOnTask(ctx context.Context, actorID, taskID, content string, attachments []string) ([]repository.CommentWithAuthor, error) {
	clean := s.sanitizer.Sanitize(content)
	if clean == "" {
		return nil, model.NewCommentRequiredError()
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	team, err := s.loadTaskTeam(ctx, task)
	if err != nil {
		return nil, err
	}

	if !access.CanCommentOnTask(actorID, task, team) {
		return nil, model.NewNotAuthorizedError("このタスクにコメントする権限がありません")
	}

	comment := &model.Comment{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		UserID:      actorID,
		Content:     clean,
		Attachments: attachments,
		CreatedAt:   time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}

	comments, err := s.commentRepo.ListByTaskWithAuthor(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}

	slog.Info("comment added",
		slog.String("task_id", taskID),
		slog.String("comment_id", comment.ID),
		slog.Int("attachments", len(attachments)),
	)
	return comments, nil
}

// loadTaskTeam はチームタスクの所属チームをロードする。
// 個人タスクの場合はnilを返す。チームタスクなのにチームが存在しない
// 場合はエラーを返す。
func (s *Service) loadTaskTeam(ctx context.Context, task *model.Task) (*model.Team, error) {
	if task.IsPersonal() {
		return nil, nil
	}
	team, err := s.teamRepo.FindByID(ctx, *task.TeamID)
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if team == nil {
		return nil, model.NewTeamNotFoundError(*task.TeamID)
	}
	return team, nil
}
