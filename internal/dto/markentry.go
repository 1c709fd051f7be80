package dto

import "github.com/midlajmidu/eventloo-sub001/internal/model"

// ── 评分录入模块 DTO ──

// MarkPayload 单个参赛者的保存载荷
// 客户端随原始评委分一并上送派生值（总分/均分/百分制），
// 排名与积分仍以后端为准，保存后通过重新拉取名单对账
type MarkPayload struct {
	ID            int      `json:"id"`
	Judge1Marks   *float64 `json:"judge1_marks"`
	Judge2Marks   *float64 `json:"judge2_marks"`
	Judge3Marks   *float64 `json:"judge3_marks"`
	TotalMarks    *float64 `json:"total_marks"`
	AverageMarks  *float64 `json:"average_marks"`
	MarksOutOf100 *float64 `json:"marks_out_of_100"`
	Comments      string   `json:"comments"`
	TeamID        *int     `json:"team_id,omitempty"` // 仅团体项目
}

// BulkMarkEntryRequest 批量保存请求
type BulkMarkEntryRequest struct {
	Marks []MarkPayload `json:"marks"`
}

// BulkMarkEntryResponse 批量保存响应
type BulkMarkEntryResponse struct {
	Message string               `json:"message"`
	Results []model.MarkEntryRow `json:"results"`
}
