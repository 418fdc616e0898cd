package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, team, task, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingFields      = "MISSING_FIELDS"
	ErrCodeEmailExists        = "EMAIL_EXISTS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidOTP         = "INVALID_OTP"
	ErrCodeOTPExpired         = "OTP_EXPIRED"
	ErrCodeTeamNotFound       = "TEAM_NOT_FOUND"
	ErrCodeTaskNotFound       = "TASK_NOT_FOUND"
	ErrCodeInviteNotFound     = "INVITE_NOT_FOUND"
	ErrCodeReceiverNotFound   = "RECEIVER_NOT_FOUND"
	ErrCodeAlreadyMember      = "ALREADY_MEMBER"
	ErrCodeInviteAlreadySent  = "INVITE_ALREADY_SENT"
	ErrCodeNotAuthorized      = "NOT_AUTHORIZED"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidFilter      = "INVALID_FILTER"
	ErrCodeCommentRequired    = "COMMENT_REQUIRED"
	ErrCodeInvalidFileType    = "INVALID_FILE_TYPE"
	ErrCodeFileTooLarge       = "FILE_TOO_LARGE"
	ErrCodeTooManyAttachments = "TOO_MANY_ATTACHMENTS"
	ErrCodePromptRequired     = "PROMPT_REQUIRED"
	ErrCodeSuggestionFailed   = "SUGGESTION_FAILED"
)

// NewMissingFieldsError は必須フィールド欠落エラーを生成する。
func NewMissingFieldsError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  fmt.Sprintf("必須フィールドが不足しています: %s", detail),
		Category: "validation",
		Action:   "リクエストボディに必要なフィールドをすべて指定してください。",
	}
}

// NewEmailExistsError はメールアドレス重複エラーを生成する。
func NewEmailExistsError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailExists,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "auth",
		Action:   "別のメールアドレスで登録するか、ログインしてください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "先にユーザー登録を行ってください。",
	}
}

// NewInvalidOTPError はOTP不一致エラーを生成する。
func NewInvalidOTPError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidOTP,
		Message:  "確認コードが正しくありません。",
		Category: "auth",
		Action:   "メールに記載された確認コードを確認して再度入力してください。",
	}
}

// NewOTPExpiredError はOTP期限切れエラーを生成する。
func NewOTPExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPExpired,
		Message:  "確認コードの有効期限が切れています。",
		Category: "auth",
		Action:   "再度登録を行い、新しい確認コードを取得してください。",
	}
}

// NewTeamNotFoundError はチーム未検出エラーを生成する。
func NewTeamNotFoundError(teamID string) *APIError {
	return &APIError{
		Code:     ErrCodeTeamNotFound,
		Message:  fmt.Sprintf("指定されたチームが見つかりません: %s", teamID),
		Category: "team",
		Action:   "チームIDを確認してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "task",
		Action:   "タスクIDを確認してください。",
	}
}

// NewInviteNotFoundError は招待未検出エラーを生成する。
func NewInviteNotFoundError(inviteID string) *APIError {
	return &APIError{
		Code:     ErrCodeInviteNotFound,
		Message:  fmt.Sprintf("指定された招待が見つかりません: %s", inviteID),
		Category: "team",
		Action:   "招待IDを確認してください。",
	}
}

// NewReceiverNotFoundError は招待先ユーザー未検出エラーを生成する。
func NewReceiverNotFoundError(receiverID string) *APIError {
	return &APIError{
		Code:     ErrCodeReceiverNotFound,
		Message:  fmt.Sprintf("招待先のユーザーが見つかりません: %s", receiverID),
		Category: "team",
		Action:   "招待先のユーザーIDを確認してください。",
	}
}

// NewAlreadyMemberError は既にメンバーであることを示すエラーを生成する。
func NewAlreadyMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyMember,
		Message:  "このユーザーは既にチームのメンバーです。",
		Category: "team",
		Action:   "メンバー一覧を確認してください。",
	}
}

// NewInviteAlreadySentError は招待の重複送信エラーを生成する。
func NewInviteAlreadySentError() *APIError {
	return &APIError{
		Code:     ErrCodeInviteAlreadySent,
		Message:  "このユーザーへの招待は既に送信されています。",
		Category: "team",
		Action:   "招待への応答をお待ちください。",
	}
}

// NewNotAuthorizedError は認可エラーを生成する。
func NewNotAuthorizedError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthorized,
		Message:  fmt.Sprintf("この操作を行う権限がありません: %s", detail),
		Category: "auth",
		Action:   "操作対象への権限を持つアカウントでログインしてください。",
	}
}

// NewInvalidStatusError は無効なタスク状態エラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なタスク状態です: %s", status),
		Category: "validation",
		Action:   "状態には open、in-progress、completed のいずれかを指定してください。",
	}
}

// NewInvalidFilterError は無効なフィルタエラーを生成する。
func NewInvalidFilterError(filter string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFilter,
		Message:  fmt.Sprintf("無効なフィルタです: %s", filter),
		Category: "validation",
		Action:   "typeには personal、assigned、team（teamId必須）のいずれかを指定してください。",
	}
}

// NewCommentRequiredError はコメント本文欠落エラーを生成する。
func NewCommentRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeCommentRequired,
		Message:  "コメント本文は必須です。",
		Category: "validation",
		Action:   "contentフィールドにコメント本文を指定してください。",
	}
}

// NewInvalidFileTypeError は許可されない添付ファイル形式エラーを生成する。
func NewInvalidFileTypeError(contentType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFileType,
		Message:  fmt.Sprintf("許可されていないファイル形式です: %s", contentType),
		Category: "validation",
		Action:   "jpeg、png、jpg、pdf、doc、docx のいずれかの形式でアップロードしてください。",
	}
}

// NewFileTooLargeError は添付ファイルサイズ超過エラーを生成する。
func NewFileTooLargeError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeFileTooLarge,
		Message:  fmt.Sprintf("添付ファイルのサイズが上限（5MB）を超えています: %s", name),
		Category: "validation",
		Action:   "5MB以下のファイルをアップロードしてください。",
	}
}

// NewTooManyAttachmentsError は添付ファイル数超過エラーを生成する。
func NewTooManyAttachmentsError(count int) *APIError {
	return &APIError{
		Code:     ErrCodeTooManyAttachments,
		Message:  fmt.Sprintf("添付ファイル数が上限（5件）を超えています: %d件", count),
		Category: "validation",
		Action:   "添付ファイルは5件以内にしてください。",
	}
}

// NewPromptRequiredError はプロンプト欠落エラーを生成する。
func NewPromptRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodePromptRequired,
		Message:  "プロンプトは必須です。",
		Category: "validation",
		Action:   "promptフィールドにタスクの説明を指定してください。",
	}
}

// NewSuggestionFailedError はタスク提案の生成失敗エラーを生成する。
func NewSuggestionFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeSuggestionFailed,
		Message:  fmt.Sprintf("タスク提案の生成に失敗しました: %s", reason),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
