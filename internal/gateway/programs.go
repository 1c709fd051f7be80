package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/midlajmidu/eventloo-sub001/internal/dto"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
)

// ProgramsAPI 项目列表接口
type ProgramsAPI interface {
	// List 拉取赛事下全部项目
	List(ctx context.Context, eventID int) ([]model.Program, error)
}

type programsAPI struct {
	client *apiclient.Client
}

// NewProgramsAPI 创建 ProgramsAPI 实例
func NewProgramsAPI(client *apiclient.Client) ProgramsAPI {
	return &programsAPI{client: client}
}

func (p *programsAPI) List(ctx context.Context, eventID int) ([]model.Program, error) {
	// page_size 放大到 100，一次取全（与原前端口径一致）
	query := url.Values{"page_size": []string{"100"}}

	var list dto.List[model.Program]
	path := fmt.Sprintf("/events/%d/programs/", eventID)
	if err := p.client.Get(ctx, path, query, &list); err != nil {
		return nil, fmt.Errorf("拉取项目列表失败: %w", err)
	}
	return list.Items, nil
}
