package model

import "time"

// TaskStatus はタスクの状態を表す。
type TaskStatus string

const (
	// TaskStatusOpen は未着手のタスクを示す。
	TaskStatusOpen TaskStatus = "open"
	// TaskStatusInProgress は進行中のタスクを示す。
	TaskStatusInProgress TaskStatus = "in-progress"
	// TaskStatusCompleted は完了したタスクを示す。
	TaskStatusCompleted TaskStatus = "completed"
)

// ValidTaskStatus は文字列が有効なタスク状態かを判定する。
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority はタスクの優先度を表す。
type TaskPriority string

const (
	// TaskPriorityLow は低優先度を示す。
	TaskPriorityLow TaskPriority = "low"
	// TaskPriorityMedium は中優先度を示す。
	TaskPriorityMedium TaskPriority = "medium"
	// TaskPriorityHigh は高優先度を示す。
	TaskPriorityHigh TaskPriority = "high"
)

// TaskFilter はタスク一覧取得のフィルタモードを表す。
type TaskFilter string

const (
	// TaskFilterPersonal はチームに属さない自分のタスク（作成者または担当者）。
	TaskFilterPersonal TaskFilter = "personal"
	// TaskFilterAssigned はチームの有無を問わず自分が担当のタスク。
	TaskFilterAssigned TaskFilter = "assigned"
	// TaskFilterTeam は指定チーム配下の全タスク。
	TaskFilterTeam TaskFilter = "team"
)

// Task はタスクを表す。
// TeamIDがnilの場合は個人タスクであり、作成者と担当者の関係のみで
// アクセス制御される。チームに紐づくタスクはチームのルールが優先される。
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     *time.Time
	Status      TaskStatus
	Priority    TaskPriority
	CreatedBy   string
	AssignedTo  *string
	TeamID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPersonal はチームに紐づかない個人タスクかどうかを返す。
func (t *Task) IsPersonal() bool {
	return t.TeamID == nil
}

// Comment はタスクへのコメントを表す。追記専用の順序付き列として扱う。
type Comment struct {
	ID          string
	TaskID      string
	UserID      string
	Content     string
	Attachments []string
	CreatedAt   time.Time
}
