package dto

// ── 认证模块 DTO ──
// 只覆盖拦截器所需的最小面：换取与刷新 Token

// LoginRequest 登录请求 — POST /token/
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair 登录响应
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest 刷新请求 — POST /token/refresh/
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	Access string `json:"access"`
}
