package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskdeck/internal/model"
)

// errorResponseBody はAPIエラーレスポンスの統一フォーマット。
type errorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// APIErrorはコードに応じたステータスで、それ以外は500で応答する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMissingFields,
		model.ErrCodeEmailExists,
		model.ErrCodeInvalidOTP,
		model.ErrCodeOTPExpired,
		model.ErrCodeAlreadyMember,
		model.ErrCodeInviteAlreadySent,
		model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidFilter,
		model.ErrCodeCommentRequired,
		model.ErrCodeInvalidFileType,
		model.ErrCodeFileTooLarge,
		model.ErrCodeTooManyAttachments,
		model.ErrCodePromptRequired:
		return http.StatusBadRequest
	case model.ErrCodeNotAuthorized:
		return http.StatusForbidden
	case model.ErrCodeUserNotFound,
		model.ErrCodeTeamNotFound,
		model.ErrCodeTaskNotFound,
		model.ErrCodeInviteNotFound,
		model.ErrCodeReceiverNotFound:
		return http.StatusNotFound
	case model.ErrCodeSuggestionFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeUnauthorized は認証欠落時の統一レスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	})
}

// writeInvalidRequestBody はリクエストボディ解析失敗時の統一レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}
