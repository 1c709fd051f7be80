package gateway

import (
	"context"
	"fmt"

	"github.com/midlajmidu/eventloo-sub001/internal/dto"
	"github.com/midlajmidu/eventloo-sub001/pkg/apiclient"
)

// AuthAPI 认证接口 —— 只覆盖 Token 换取与刷新
// 注意：实现必须构建在不带 BearerAuth 中间件的裸客户端上，
// 否则刷新请求会再次进入刷新逻辑
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*dto.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type authAPI struct {
	client *apiclient.Client
}

// NewAuthAPI 创建 AuthAPI 实例
func NewAuthAPI(client *apiclient.Client) AuthAPI {
	return &authAPI{client: client}
}

func (a *authAPI) Login(ctx context.Context, username, password string) (*dto.TokenPair, error) {
	var pair dto.TokenPair
	req := dto.LoginRequest{Username: username, Password: password}
	if err := a.client.Post(ctx, "/token/", req, &pair); err != nil {
		return nil, fmt.Errorf("登录失败: %w", err)
	}
	return &pair, nil
}

func (a *authAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp dto.RefreshResponse
	req := dto.RefreshRequest{Refresh: refreshToken}
	if err := a.client.Post(ctx, "/token/refresh/", req, &resp); err != nil {
		return "", fmt.Errorf("刷新 Token 失败: %w", err)
	}
	return resp.Access, nil
}
