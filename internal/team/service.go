// Package team はチーム作成と招待管理のドメインロジックを提供する。
package team

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/taskdeck/internal/access"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// Service はチーム管理のサービス層。
// チーム作成、メンバー招待、招待承諾のビジネスロジックを提供する。
type Service struct {
	teamRepo repository.TeamRepository
	invRepo  repository.InvitationRepository
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	teamRepo repository.TeamRepository,
	invRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
) *Service {
	return &Service{
		teamRepo: teamRepo,
		invRepo:  invRepo,
		userRepo: userRepo,
	}
}

// CreateTeam はチームを作成する。作成者がオーナーとなり、
// メンバーは空集合で開始する。
func (s *Service) CreateTeam(ctx context.Context, actorID, name, description string) (*model.Team, error) {
	now := time.Now()
	team := &model.Team{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("チームの作成に失敗しました: %w", err)
	}

	slog.Info("team created",
		slog.String("team_id", team.ID),
		slog.String("owner_id", actorID),
	)
	return team, nil
}

// InviteMember はチームへの招待を作成する。
// チームの存在、送信者がオーナーであること、受信者の存在、受信者が
// 未メンバーであること、同一の組に対するpendingの招待がないことを
// この順で検証する。
func (s *Service) InviteMember(ctx context.Context, actorID, teamID, receiverID string) (*model.Invitation, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if team == nil {
		return nil, model.NewTeamNotFoundError(teamID)
	}

	if !access.CanInvite(actorID, team) {
		return nil, model.NewNotAuthorizedError("招待を送信できるのはチームのオーナーのみです")
	}

	receiver, err := s.userRepo.FindByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("招待先ユーザーの取得に失敗しました: %w", err)
	}
	if receiver == nil {
		return nil, model.NewReceiverNotFoundError(receiverID)
	}

	if team.HasMember(receiverID) {
		return nil, model.NewAlreadyMemberError()
	}

	existing, err := s.invRepo.FindPending(ctx, actorID, receiverID, teamID)
	if err != nil {
		return nil, fmt.Errorf("既存招待の検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewInviteAlreadySentError()
	}

	now := time.Now()
	inv := &model.Invitation{
		ID:         uuid.New().String(),
		TeamID:     teamID,
		SenderID:   actorID,
		ReceiverID: receiverID,
		Status:     model.InvitationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.invRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("招待の作成に失敗しました: %w", err)
	}

	slog.Info("invitation sent",
		slog.String("invite_id", inv.ID),
		slog.String("team_id", teamID),
		slog.String("receiver_id", receiverID),
	)
	return inv, nil
}

// AcceptInvite は招待を承諾し、受信者をチームのメンバーに追加する。
// 承諾済みの招待レコードは保持せず、メンバー追加後に削除する。
// 既にメンバーの場合は招待を削除した上で「既にメンバー」エラーを返す
// （2回目の承諾は冪等で、重複メンバーは発生しない）。
// メンバー追加と招待削除は独立した単一行の書き込みであり、
// 両者にまたがる原子性は保証しない。
func (s *Service) AcceptInvite(ctx context.Context, actorID, inviteID string) (*model.Team, error) {
	inv, err := s.invRepo.FindByID(ctx, inviteID)
	if err != nil {
		return nil, fmt.Errorf("招待の取得に失敗しました: %w", err)
	}
	if inv == nil {
		return nil, model.NewInviteNotFoundError(inviteID)
	}

	if !access.CanAcceptInvite(actorID, inv) {
		return nil, model.NewNotAuthorizedError("招待を承諾できるのは招待の受信者のみです")
	}

	team, err := s.teamRepo.FindByID(ctx, inv.TeamID)
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if team == nil {
		return nil, model.NewTeamNotFoundError(inv.TeamID)
	}

	if team.HasMember(actorID) {
		// 残留した招待を片付けてからエラーを返す
		if err := s.invRepo.DeleteByID(ctx, inviteID); err != nil {
			return nil, fmt.Errorf("招待の削除に失敗しました: %w", err)
		}
		return nil, model.NewAlreadyMemberError()
	}

	if err := s.teamRepo.AddMember(ctx, inv.TeamID, actorID); err != nil {
		return nil, fmt.Errorf("メンバーの追加に失敗しました: %w", err)
	}

	if err := s.invRepo.DeleteByID(ctx, inviteID); err != nil {
		return nil, fmt.Errorf("招待の削除に失敗しました: %w", err)
	}

	// 追加後のメンバー一覧を含む最新状態を返す
	updated, err := s.teamRepo.FindByID(ctx, inv.TeamID)
	if err != nil {
		return nil, fmt.Errorf("チームの再取得に失敗しました: %w", err)
	}
	if updated == nil {
		return nil, model.NewTeamNotFoundError(inv.TeamID)
	}

	slog.Info("invitation accepted",
		slog.String("invite_id", inviteID),
		slog.String("team_id", inv.TeamID),
		slog.String("user_id", actorID),
	)
	return updated, nil
}
