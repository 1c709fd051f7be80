package gateway

import (
	"context"
	"fmt"

	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
)

// ── 报表类型 ──

const (
	ReportProgramDetails   = "program-details"
	ReportCompleteResults  = "complete-results"
	ReportFirstPlace       = "first-place"
	ReportSecondPlace      = "second-place"
	ReportThirdPlace       = "third-place"
	ReportAllResults       = "all-results"
	ReportParticipantsTeam = "participants-team"
	ReportBackup           = "backup"
)

// ReportTypes 控制台菜单展示顺序
var ReportTypes = []string{
	ReportProgramDetails,
	ReportCompleteResults,
	ReportFirstPlace,
	ReportSecondPlace,
	ReportThirdPlace,
	ReportAllResults,
	ReportParticipantsTeam,
	ReportBackup,
}

// ReportsAPI 报表下载接口，全部返回不透明二进制（PDF/ZIP）
type ReportsAPI interface {
	Report(ctx context.Context, eventID int, reportType string) ([]byte, error)
	BulkCallingSheets(ctx context.Context, eventID int) ([]byte, error)
	BulkValuationSheets(ctx context.Context, eventID int) ([]byte, error)
}

type reportsAPI struct {
	client *apiclient.Client
}

// NewReportsAPI 创建 ReportsAPI 实例
func NewReportsAPI(client *apiclient.Client) ReportsAPI {
	return &reportsAPI{client: client}
}

func (r *reportsAPI) Report(ctx context.Context, eventID int, reportType string) ([]byte, error) {
	path := fmt.Sprintf("/events/%d/reports/%s/", eventID, reportType)
	blob, err := r.client.GetBlob(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("生成报表 %s 失败: %w", reportType, err)
	}
	return blob, nil
}

func (r *reportsAPI) BulkCallingSheets(ctx context.Context, eventID int) ([]byte, error) {
	path := fmt.Sprintf("/events/%d/calling-sheets/bulk/", eventID)
	blob, err := r.client.GetBlob(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("生成点名表失败: %w", err)
	}
	return blob, nil
}

func (r *reportsAPI) BulkValuationSheets(ctx context.Context, eventID int) ([]byte, error) {
	path := fmt.Sprintf("/events/%d/valuation-sheets/bulk/", eventID)
	blob, err := r.client.GetBlob(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("生成评分表失败: %w", err)
	}
	return blob, nil
}
