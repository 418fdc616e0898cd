package access

import (
	"testing"

	"github.com/hitoshi/taskdeck/internal/model"
)

func strPtr(s string) *string { return &s }

func personalTask(createdBy string, assignedTo *string) *model.Task {
	return &model.Task{
		ID:         "task-1",
		CreatedBy:  createdBy,
		AssignedTo: assignedTo,
		TeamID:     nil,
	}
}

func teamTask(createdBy, teamID string) *model.Task {
	return &model.Task{
		ID:        "task-1",
		CreatedBy: createdBy,
		TeamID:    &teamID,
	}
}

func team(ownerID string, members ...string) *model.Team {
	return &model.Team{
		ID:      "team-1",
		OwnerID: ownerID,
		Members: members,
	}
}

// TestCanViewTeamTasks はチームタスク一覧の閲覧がオーナーに限られることを検証する。
func TestCanViewTeamTasks(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		team    *model.Team
		want    bool
	}{
		{
			name:    "オーナーは閲覧できる",
			actorID: "owner",
			team:    team("owner", "member"),
			want:    true,
		},
		{
			name:    "メンバーは閲覧できない",
			actorID: "member",
			team:    team("owner", "member"),
			want:    false,
		},
		{
			name:    "無関係のユーザーは閲覧できない",
			actorID: "outsider",
			team:    team("owner", "member"),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanViewTeamTasks(tt.actorID, tt.team)
			if got != tt.want {
				t.Errorf("CanViewTeamTasks(%q) = %v, want %v", tt.actorID, got, tt.want)
			}
		})
	}
}

// TestCanDeleteTask はタスク削除の権限マトリクスを検証する。
func TestCanDeleteTask(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		task    *model.Task
		team    *model.Team
		want    bool
	}{
		{
			name:    "個人タスクは作成者が削除できる",
			actorID: "creator",
			task:    personalTask("creator", nil),
			team:    nil,
			want:    true,
		},
		{
			name:    "個人タスクは担当者でも削除できない",
			actorID: "assignee",
			task:    personalTask("creator", strPtr("assignee")),
			team:    nil,
			want:    false,
		},
		{
			name:    "個人タスクは無関係のユーザーは削除できない",
			actorID: "outsider",
			task:    personalTask("creator", nil),
			team:    nil,
			want:    false,
		},
		{
			name:    "チームタスクはオーナーが削除できる",
			actorID: "owner",
			task:    teamTask("member", "team-1"),
			team:    team("owner", "member"),
			want:    true,
		},
		{
			name:    "チームタスクは作成者でもオーナーでなければ削除できない",
			actorID: "member",
			task:    teamTask("member", "team-1"),
			team:    team("owner", "member"),
			want:    false,
		},
		{
			name:    "チームタスクでチームがnilの場合は削除できない",
			actorID: "owner",
			task:    teamTask("member", "team-1"),
			team:    nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanDeleteTask(tt.actorID, tt.task, tt.team)
			if got != tt.want {
				t.Errorf("CanDeleteTask(%q) = %v, want %v", tt.actorID, got, tt.want)
			}
		})
	}
}

// TestCanCommentOnTask はコメント権限の判定を検証する。
func TestCanCommentOnTask(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		task    *model.Task
		team    *model.Team
		want    bool
	}{
		{
			name:    "個人タスクは作成者がコメントできる",
			actorID: "creator",
			task:    personalTask("creator", nil),
			want:    true,
		},
		{
			name:    "個人タスクは担当者がコメントできる",
			actorID: "assignee",
			task:    personalTask("creator", strPtr("assignee")),
			want:    true,
		},
		{
			name:    "個人タスクは無関係のユーザーはコメントできない",
			actorID: "outsider",
			task:    personalTask("creator", strPtr("assignee")),
			want:    false,
		},
		{
			name:    "担当者なしの個人タスクに第三者はコメントできない",
			actorID: "outsider",
			task:    personalTask("creator", nil),
			want:    false,
		},
		{
			name:    "チームタスクはオーナーがコメントできる",
			actorID: "owner",
			task:    teamTask("member", "team-1"),
			team:    team("owner", "member"),
			want:    true,
		},
		{
			name:    "チームタスクはメンバーがコメントできる",
			actorID: "member",
			task:    teamTask("member", "team-1"),
			team:    team("owner", "member"),
			want:    true,
		},
		{
			name:    "チームタスクは非メンバーはコメントできない",
			actorID: "outsider",
			task:    teamTask("member", "team-1"),
			team:    team("owner", "member"),
			want:    false,
		},
		{
			name:    "チームタスクでチームがnilの場合はコメントできない",
			actorID: "owner",
			task:    teamTask("member", "team-1"),
			team:    nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanCommentOnTask(tt.actorID, tt.task, tt.team)
			if got != tt.want {
				t.Errorf("CanCommentOnTask(%q) = %v, want %v", tt.actorID, got, tt.want)
			}
		})
	}
}

// TestCanInvite は招待送信の権限がオーナーに限られることを検証する。
func TestCanInvite(t *testing.T) {
	tm := team("owner", "member")

	if !CanInvite("owner", tm) {
		t.Error("CanInvite(owner) = false, want true")
	}
	if CanInvite("member", tm) {
		t.Error("CanInvite(member) = true, want false")
	}
	if CanInvite("outsider", tm) {
		t.Error("CanInvite(outsider) = true, want false")
	}
}

// TestCanAcceptInvite は招待の承諾が受信者に限られることを検証する。
func TestCanAcceptInvite(t *testing.T) {
	inv := &model.Invitation{
		ID:         "inv-1",
		TeamID:     "team-1",
		SenderID:   "owner",
		ReceiverID: "receiver",
		Status:     model.InvitationStatusPending,
	}

	if !CanAcceptInvite("receiver", inv) {
		t.Error("CanAcceptInvite(receiver) = false, want true")
	}
	if CanAcceptInvite("owner", inv) {
		t.Error("CanAcceptInvite(owner) = true, want false")
	}
	if CanAcceptInvite("outsider", inv) {
		t.Error("CanAcceptInvite(outsider) = true, want false")
	}
}
