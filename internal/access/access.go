// Package access はタスクとチームに対する操作の認可判定を提供する。
//
// すべての判定は副作用のない純粋関数として実装する。対象リソースは
// 呼び出し側が事前にロードして渡すこと。リソースの不存在（not found）は
// 認可判定の前に呼び出し側で別のエラーとして扱う。
package access

import "github.com/hitoshi/taskdeck/internal/model"

// CanViewTeamTasks はチーム配下のタスク一覧を閲覧できるかを判定する。
// 閲覧できるのはチームのオーナーのみ。メンバーは閲覧できない。
func CanViewTeamTasks(actorID string, team *model.Team) bool {
	return actorID == team.OwnerID
}

// CanDeleteTask はタスクを削除できるかを判定する。
// 個人タスクは作成者のみ、チームタスクはチームのオーナーのみが削除できる。
// チームタスクの場合、teamには当該タスクのチームを渡すこと。
func CanDeleteTask(actorID string, task *model.Task, team *model.Team) bool {
	if task.IsPersonal() {
		return actorID == task.CreatedBy
	}
	if team == nil {
		return false
	}
	return actorID == team.OwnerID
}

// CanCommentOnTask はタスクにコメントできるかを判定する。
// チームタスクはオーナーまたはメンバー、個人タスクは作成者または担当者が
// コメントできる。
func CanCommentOnTask(actorID string, task *model.Task, team *model.Team) bool {
	if task.IsPersonal() {
		if actorID == task.CreatedBy {
			return true
		}
		return task.AssignedTo != nil && actorID == *task.AssignedTo
	}
	if team == nil {
		return false
	}
	return actorID == team.OwnerID || team.HasMember(actorID)
}

// CanInvite はチームへの招待を送信できるかを判定する。
// 送信できるのはチームのオーナーのみ。
func CanInvite(actorID string, team *model.Team) bool {
	return actorID == team.OwnerID
}

// CanAcceptInvite は招待を承諾できるかを判定する。
// 承諾できるのは招待の受信者のみ。
func CanAcceptInvite(actorID string, inv *model.Invitation) bool {
	return actorID == inv.ReceiverID
}
