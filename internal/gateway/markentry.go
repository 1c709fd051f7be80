package gateway

import (
	"context"
	"fmt"

	"github.com/midlajmidu/eventloo-sub001/internal/dto"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
)

// MarkEntryAPI 评分录入接口
type MarkEntryAPI interface {
	// Participants 拉取项目的录入名单（含已保存的评委分与后端排名/积分）
	Participants(ctx context.Context, eventID, programID int) ([]model.MarkEntryRow, error)
	// BulkUpdate 批量保存评分
	BulkUpdate(ctx context.Context, eventID, programID int, marks []dto.MarkPayload) (*dto.BulkMarkEntryResponse, error)
	// ResultsPDF 拉取项目成绩 PDF（不透明二进制）
	ResultsPDF(ctx context.Context, eventID, programID int) ([]byte, error)
}

type markEntryAPI struct {
	client *apiclient.Client
}

// NewMarkEntryAPI 创建 MarkEntryAPI 实例
func NewMarkEntryAPI(client *apiclient.Client) MarkEntryAPI {
	return &markEntryAPI{client: client}
}

func (m *markEntryAPI) Participants(ctx context.Context, eventID, programID int) ([]model.MarkEntryRow, error) {
	var list dto.List[model.MarkEntryRow]
	path := fmt.Sprintf("/events/%d/programs/%d/results/mark_entry/", eventID, programID)
	if err := m.client.Get(ctx, path, nil, &list); err != nil {
		return nil, fmt.Errorf("拉取录入名单失败: %w", err)
	}
	return list.Items, nil
}

func (m *markEntryAPI) BulkUpdate(ctx context.Context, eventID, programID int, marks []dto.MarkPayload) (*dto.BulkMarkEntryResponse, error) {
	var resp dto.BulkMarkEntryResponse
	path := fmt.Sprintf("/events/%d/programs/%d/results/bulk_mark_entry/", eventID, programID)
	req := dto.BulkMarkEntryRequest{Marks: marks}
	if err := m.client.Post(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("保存评分失败: %w", err)
	}
	return &resp, nil
}

func (m *markEntryAPI) ResultsPDF(ctx context.Context, eventID, programID int) ([]byte, error) {
	path := fmt.Sprintf("/events/%d/programs/%d/results/results_pdf/", eventID, programID)
	blob, err := m.client.GetBlob(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("生成成绩 PDF 失败: %w", err)
	}
	return blob, nil
}
