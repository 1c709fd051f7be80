package gateway

import (
	"context"
	"fmt"

	"github.com/midlajmidu/eventloo-sub001/internal/dto"
	"github.com/midlajmidu/eventloo-sub001/internal/model"
	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
)

// PointsAPI 积分查询接口（全部只读，积分由后端计算）
type PointsAPI interface {
	TeamPoints(ctx context.Context, eventID int) ([]model.TeamPoints, error)
	StudentPoints(ctx context.Context, eventID int) ([]model.StudentPoints, error)
	TeamEventDetails(ctx context.Context, teamID, eventID int) (*model.TeamEventDetails, error)
}

type pointsAPI struct {
	client *apiclient.Client
}

// NewPointsAPI 创建 PointsAPI 实例
func NewPointsAPI(client *apiclient.Client) PointsAPI {
	return &pointsAPI{client: client}
}

func (p *pointsAPI) TeamPoints(ctx context.Context, eventID int) ([]model.TeamPoints, error) {
	var list dto.List[model.TeamPoints]
	path := fmt.Sprintf("/events/%d/points/teams/", eventID)
	if err := p.client.Get(ctx, path, nil, &list); err != nil {
		return nil, fmt.Errorf("拉取队伍积分失败: %w", err)
	}
	return list.Items, nil
}

func (p *pointsAPI) StudentPoints(ctx context.Context, eventID int) ([]model.StudentPoints, error) {
	var list dto.List[model.StudentPoints]
	path := fmt.Sprintf("/events/%d/points/students/", eventID)
	if err := p.client.Get(ctx, path, nil, &list); err != nil {
		return nil, fmt.Errorf("拉取学生积分失败: %w", err)
	}
	return list.Items, nil
}

func (p *pointsAPI) TeamEventDetails(ctx context.Context, teamID, eventID int) (*model.TeamEventDetails, error) {
	var details model.TeamEventDetails
	path := fmt.Sprintf("/teams/%d/events/%d/details/", teamID, eventID)
	if err := p.client.Get(ctx, path, nil, &details); err != nil {
		return nil, fmt.Errorf("拉取队伍明细失败: %w", err)
	}
	return &details, nil
}
