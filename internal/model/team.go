package model

import "time"

// Team はタスクを共有するチームを表す。
// オーナーは作成時に固定され、以後変更されない。
// Membersにはオーナー自身は含まれない（オーナーは暗黙的に全権限を持つ）。
type Team struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember は指定ユーザーがメンバーに含まれるかを返す。
// オーナーはメンバー集合に含まれないため、オーナー判定は別途行うこと。
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// InvitationStatus は招待の状態を表す。
type InvitationStatus string

const (
	// InvitationStatusPending は招待が未応答であることを示す。
	InvitationStatusPending InvitationStatus = "pending"
	// InvitationStatusAccepted は招待が承諾されたことを示す。
	// 承諾時に招待レコードは削除されるため、この状態は永続化されない。
	InvitationStatusAccepted InvitationStatus = "accepted"
	// InvitationStatusDeclined は招待が辞退されたことを示す。
	InvitationStatusDeclined InvitationStatus = "declined"
)

// Invitation はチームへの招待を表す。
// 同一の（送信者、受信者、チーム）の組に対するpendingの招待は最大1件。
type Invitation struct {
	ID         string
	TeamID     string
	SenderID   string
	ReceiverID string
	Status     InvitationStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
