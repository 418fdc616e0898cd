package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/model"
)

// TeamServiceInterface はチームハンドラーが必要とするサービスインターフェース。
type TeamServiceInterface interface {
	// CreateTeam はチームを作成する。
	CreateTeam(ctx context.Context, actorID, name, description string) (*model.Team, error)
	// InviteMember はチームへの招待を作成する。
	InviteMember(ctx context.Context, actorID, teamID, receiverID string) (*model.Invitation, error)
	// AcceptInvite は招待を承諾し、更新後のチームを返す。
	AcceptInvite(ctx context.Context, actorID, inviteID string) (*model.Team, error)
}

// TeamHandler はチーム管理のHTTPハンドラー。
type TeamHandler struct {
	service TeamServiceInterface
}

// NewTeamHandler はTeamHandlerを生成する。
func NewTeamHandler(service TeamServiceInterface) *TeamHandler {
	return &TeamHandler{
		service: service,
	}
}

// teamResponse はチーム情報のAPIレスポンス。
type teamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// invitationResponse は招待情報のAPIレスポンス。
type invitationResponse struct {
	ID        string    `json:"id"`
	Team      string    `json:"team"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// createTeamRequest はチーム作成リクエストのボディ。
type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// inviteMemberRequest はメンバー招待リクエストのボディ。
type inviteMemberRequest struct {
	ReceiverID string `json:"receiverId"`
}

// CreateTeam はチームを作成する。
// POST /api/v1/team
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("name"))
		return
	}

	team, err := h.service.CreateTeam(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "チームを作成しました。",
		"team":    toTeamResponse(team),
	})
}

// InviteMember はチームへの招待を送信する。
// POST /api/v1/team/{teamId}/invite
func (h *TeamHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	teamID := chi.URLParam(r, "teamId")

	var req inviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.ReceiverID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError("receiverId"))
		return
	}

	inv, err := h.service.InviteMember(r.Context(), userID, teamID, req.ReceiverID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "招待を送信しました。",
		"invite":  toInvitationResponse(inv),
	})
}

// AcceptInvite は招待を承諾する。
// POST /api/v1/team/invites/{inviteId}/accept
func (h *TeamHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	inviteID := chi.URLParam(r, "inviteId")

	team, err := h.service.AcceptInvite(r.Context(), userID, inviteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "招待を承諾しました。",
		"team":    toTeamResponse(team),
	})
}

// toTeamResponse はドメインのTeamをAPIレスポンス型に変換する。
func toTeamResponse(team *model.Team) teamResponse {
	members := team.Members
	if members == nil {
		members = []string{}
	}
	return teamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Owner:       team.OwnerID,
		Members:     members,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

// toInvitationResponse はドメインのInvitationをAPIレスポンス型に変換する。
func toInvitationResponse(inv *model.Invitation) invitationResponse {
	return invitationResponse{
		ID:        inv.ID,
		Team:      inv.TeamID,
		Sender:    inv.SenderID,
		Receiver:  inv.ReceiverID,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
	}
}
