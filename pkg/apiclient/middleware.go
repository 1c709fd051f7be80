package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/midlajmidu/eventloo-sub001/pkg/token"
)

// Middleware 传输层中间件，包裹 http.RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain 按声明顺序包裹 base：第一个中间件位于最外层
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// ── 请求追踪 ID ──

// RequestID 请求追踪 ID 中间件
// 为每个请求生成 UUID 并设置 X-Request-ID 头，便于与后端日志关联
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			r := req.Clone(req.Context())
			if r.Header.Get("X-Request-ID") == "" {
				r.Header.Set("X-Request-ID", uuid.New().String())
			}
			return next.RoundTrip(r)
		})
	}
}

// ── 请求日志 ──

// Logging 请求日志中间件（基于 Zap 结构化日志）
func Logging(logger *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Duration("latency", latency),
			}

			if err != nil {
				logger.Error("请求失败", append(fields, zap.Error(err))...)
				return nil, err
			}

			fields = append(fields, zap.Int("status", resp.StatusCode))
			switch {
			case resp.StatusCode >= 500:
				logger.Error("后端处理失败", fields...)
			case resp.StatusCode >= 400:
				logger.Warn("请求被拒绝", fields...)
			default:
				logger.Debug("请求完成", fields...)
			}
			return resp, nil
		})
	}
}

// ── 认证与自动刷新 ──

// RefreshFunc 用 Refresh Token 换取新 Access Token
// 实现方必须走独立的裸客户端，避免拦截器递归
type RefreshFunc func(ctx context.Context, refreshToken string) (string, error)

const refreshPath = "/token/refresh/"

// refreshLeeway 发送前的过期预判提前量：临期 Token 直接预刷新，
// 省掉一次注定 401 的往返
const refreshLeeway = 30 * time.Second

// BearerAuth 认证中间件：注入 Bearer Token，401 时自动刷新并重试一次
//
// 与前端 axios 拦截器等价的行为：
//   - 本地判定 Access Token 已过期或临期时，发送前先行刷新
//   - 刷新接口自身的 401 不触发刷新（防循环）
//   - 同一请求最多重试一次
//   - 刷新失败即清空 Token 仓库，原 401 响应原样返回给调用方
func BearerAuth(store *token.Store, refresh RefreshFunc) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			r := req.Clone(req.Context())
			if refresh != nil && !strings.Contains(r.URL.Path, refreshPath) && store.AccessExpired(refreshLeeway) {
				// 预刷新失败不拦截请求，留给后端的 401 路径兜底
				if refreshToken, tokenErr := store.Refresh(); tokenErr == nil {
					if access, refreshErr := refresh(req.Context(), refreshToken); refreshErr == nil {
						store.SetPair(access, "")
					}
				}
			}
			if access, err := store.Access(); err == nil {
				r.Header.Set("Authorization", "Bearer "+access)
			}

			resp, err := next.RoundTrip(r)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusUnauthorized || strings.Contains(r.URL.Path, refreshPath) {
				return resp, nil
			}

			refreshToken, tokenErr := store.Refresh()
			if tokenErr != nil {
				store.Clear()
				return resp, nil
			}

			access, refreshErr := refresh(req.Context(), refreshToken)
			if refreshErr != nil {
				store.Clear()
				return resp, nil
			}
			store.SetPair(access, "")

			// 丢弃原 401 响应后重放请求
			resp.Body.Close()

			retry := req.Clone(req.Context())
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, bodyErr
				}
				retry.Body = body
			}
			retry.Header.Set("Authorization", "Bearer "+access)
			return next.RoundTrip(retry)
		})
	}
}
