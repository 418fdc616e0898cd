package handler

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
	"github.com/hitoshi/taskdeck/internal/task"
)

// maxMultipartMemory はmultipartフォーム解析時のメモリ上限。
// 超過分は一時ファイルに書き出される。
const maxMultipartMemory = 32 << 20 // 32MB

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	CreateTask(ctx context.Context, actorID string, in task.CreateTaskInput) (*model.Task, error)
	ListTasks(ctx context.Context, actorID, filter, teamID string) ([]repository.TaskWithRefs, error)
	ChangeStatus(ctx context.Context, actorID, taskID, status string) (*model.Task, error)
	DeleteTask(ctx context.Context, actorID, taskID string) error
	CommentOnTask(ctx context.Context, actorID, taskID, content string, attachments []string) ([]repository.CommentWithAuthor, error)
}

// SuggestServiceInterface はタスク提案ハンドラーが必要とするサービスインターフェース。
type SuggestServiceInterface interface {
	Suggest(ctx context.Context, prompt string) (map[string]any, error)
}

// AttachmentStore は添付ファイルの検証と保存のインターフェース。
type AttachmentStore interface {
	SaveAll(files []*multipart.FileHeader) ([]string, error)
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service   TaskServiceInterface
	suggest   SuggestServiceInterface
	store     AttachmentStore
	collector metrics.MetricsCollector
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(
	service TaskServiceInterface,
	suggest SuggestServiceInterface,
	store AttachmentStore,
	collector metrics.MetricsCollector,
) *TaskHandler {
	return &TaskHandler{
		service:   service,
		suggest:   suggest,
		store:     store,
		collector: collector,
	}
}

// userRefResponse はタスクやコメントが参照するユーザーの表示情報。
type userRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// teamRefResponse はタスクが参照するチームの表示情報。
type teamRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DueDate     *time.Time       `json:"dueDate"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	CreatedBy   any              `json:"createdBy"`
	AssignedTo  any              `json:"assignedTo"`
	Team        *teamRefResponse `json:"team"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// commentResponse はコメント情報のAPIレスポンス。
type commentResponse struct {
	ID          string          `json:"id"`
	User        userRefResponse `json:"user"`
	Content     string          `json:"content"`
	Attachments []string        `json:"attachments"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate"`
	AssignedTo  *string `json:"assignedTo"`
	TeamID      *string `json:"teamId"`
}

// changeStatusRequest はタスク状態変更リクエストのボディ。
type changeStatusRequest struct {
	Status string `json:"status"`
}

// suggestRequest はタスク提案リクエストのボディ。
type suggestRequest struct {
	Prompt string `json:"prompt"`
}

// CreateTask はタスクを作成する。
// POST /api/v1/task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("title"))
		return
	}

	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_DUE_DATE",
			Message:  "期限の形式が不正です。",
			Category: "validation",
			Action:   "dueDateはYYYY-MM-DDまたはRFC3339形式で指定してください。",
		})
		return
	}

	created, err := h.service.CreateTask(r.Context(), userID, task.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		AssignedTo:  req.AssignedTo,
		TeamID:      req.TeamID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordTaskCreated()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "タスクを作成しました。",
		"task":    toTaskResponse(created),
	})
}

// ListTasks はフィルタに応じたタスク一覧を取得する。
// GET /api/v1/task?type=personal|assigned|team&teamId=xxx
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	filter := r.URL.Query().Get("type")
	teamID := r.URL.Query().Get("teamId")

	tasks, err := h.service.ListTasks(r.Context(), userID, filter, teamID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		results[i] = toTaskWithRefsResponse(t)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"tasks":   results,
	})
}

// ChangeStatus はタスクの状態を変更する。
// PATCH /api/v1/task/{taskId}/status
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	taskID := chi.URLParam(r, "taskId")

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.ChangeStatus(r.Context(), userID, taskID, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "タスクの状態を更新しました。",
		"task":    toTaskResponse(updated),
	})
}

// DeleteTask はタスクを削除する。
// DELETE /api/v1/task/{taskId}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	taskID := chi.URLParam(r, "taskId")

	if err := h.service.DeleteTask(r.Context(), userID, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "タスクを削除しました。",
	})
}

// CommentOnTask はタスクにコメントを追記する。
// multipart/form-dataのcontentフィールドに本文、attachmentsフィールドに
// 添付ファイル（最大5件、各5MBまで）を受け付ける。
// POST /api/v1/task/{taskId}/comment
func (h *TaskHandler) CommentOnTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	taskID := chi.URLParam(r, "taskId")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "multipartフォームの解析に失敗しました。",
			Category: "validation",
			Action:   "multipart/form-data形式でリクエストしてください。",
		})
		return
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["attachments"]
	}

	attachments, err := h.store.SaveAll(files)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	content := r.FormValue("content")

	comments, err := h.service.CommentOnTask(r.Context(), userID, taskID, content, attachments)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordCommentAdded(len(attachments))

	results := make([]commentResponse, len(comments))
	for i, c := range comments {
		results[i] = toCommentResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"message":  "コメントを追加しました。",
		"comments": results,
	})
}

// SuggestDetails はプロンプトに基づくタスク詳細の提案を生成する。
// POST /api/v1/task/suggest-details
func (h *TaskHandler) SuggestDetails(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		writeUnauthorized(w)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	start := time.Now()
	suggestion, err := h.suggest.Suggest(r.Context(), req.Prompt)
	h.collector.RecordSuggestLatency(time.Since(start))

	if err != nil {
		h.collector.RecordSuggestFailure()
		handleServiceError(w, err)
		return
	}

	h.collector.RecordSuggestSuccess()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":    true,
		"suggestion": suggestion,
	})
}

// parseDueDate は期限文字列を解析する。空文字列はnilとして扱う。
// RFC3339とYYYY-MM-DDの2形式を受け付ける。
func parseDueDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, true
	}
	return nil, false
}

// toTaskResponse はドメインのTaskをAPIレスポンス型に変換する。
// 参照先の表示情報を持たないため、createdBy/assignedToはIDのみになる。
func toTaskResponse(t *model.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		resp.AssignedTo = *t.AssignedTo
	}
	if t.TeamID != nil {
		resp.Team = &teamRefResponse{ID: *t.TeamID}
	}
	return resp
}

// toTaskWithRefsResponse は参照先の表示情報付きタスクをAPIレスポンス型に変換する。
func toTaskWithRefsResponse(t repository.TaskWithRefs) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedBy: userRefResponse{
			ID:    t.CreatedBy,
			Name:  t.CreatorName,
			Email: t.CreatorEmail,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		resp.AssignedTo = userRefResponse{
			ID:    *t.AssignedTo,
			Name:  t.AssigneeName,
			Email: t.AssigneeEmail,
		}
	}
	if t.TeamID != nil {
		resp.Team = &teamRefResponse{ID: *t.TeamID, Name: t.TeamName}
	}
	return resp
}

// toCommentResponse は投稿者情報付きコメントをAPIレスポンス型に変換する。
func toCommentResponse(c repository.CommentWithAuthor) commentResponse {
	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return commentResponse{
		ID: c.ID,
		User: userRefResponse{
			ID:    c.UserID,
			Name:  c.AuthorName,
			Email: c.AuthorEmail,
		},
		Content:     c.Content,
		Attachments: attachments,
		CreatedAt:   c.CreatedAt,
	}
}
