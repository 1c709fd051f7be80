package marks

import "github.com/midlajmidu/eventloo-sub001/internal/model"

// EntryState 单个参赛者的录入状态
//
// 此前散落在各渲染点的布尔组合（本次会话已保存表 + 评委分有无 +
// 后端 total_marks）在此收敛为一个枚举，由唯一的纯函数计算
type EntryState int

const (
	// StateEmpty 尚无任何评委分
	StateEmpty EntryState = iota
	// StatePartial 已有 1~2 个评委分，未齐
	StatePartial
	// StateReadyToSave 三个评委分已齐，本次会话尚未保存
	StateReadyToSave
	// StateSavedLocked 已保存（本次会话保存过，或后端数据显示历史会话保存过），
	// 输入锁定，需显式进入编辑模式才能修改
	StateSavedLocked
	// StateEditing 操作员已对锁定行显式进入编辑模式
	StateEditing
)

// String 返回状态的展示名称
func (s EntryState) String() string {
	switch s {
	case StateEmpty:
		return "未录入"
	case StatePartial:
		return "部分录入"
	case StateReadyToSave:
		return "待保存"
	case StateSavedLocked:
		return "已保存"
	case StateEditing:
		return "编辑中"
	default:
		return "未知"
	}
}

// Locked 输入是否锁定（仅 SavedLocked 锁定；Editing 是显式解锁后的状态）
func (s EntryState) Locked() bool {
	return s == StateSavedLocked
}

// StateOf 从参赛者记录与会话标记计算录入状态
//
// 判定顺序：
//  1. 编辑中优先于一切
//  2. 本次会话保存过，或后端数据齐整（三个评委分 + 非空总分，
//     说明历史会话保存过）⇒ 锁定
//  3. 三个评委分已齐 ⇒ 待保存
//  4. 有部分评委分 ⇒ 部分录入
//  5. 否则为空
func StateOf(row *model.MarkEntryRow, savedInSession, editing bool) EntryState {
	if editing {
		return StateEditing
	}
	if savedInSession || (row.HasAllJudgeMarks() && row.TotalMarks != nil) {
		return StateSavedLocked
	}
	if row.HasAllJudgeMarks() {
		return StateReadyToSave
	}
	if row.HasAnyJudgeMark() {
		return StatePartial
	}
	return StateEmpty
}
