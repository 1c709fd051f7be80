package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config HTTP 客户端配置
type Config struct {
	BaseURL string        // 含 /api 前缀，如 http://localhost:8000/api
	Timeout time.Duration // 共享超时，所有请求生效
}

// Client 后端 REST API 的 HTTP 客户端封装
//
// 设计说明：
//   - 进程生命周期内构造一次，按引用注入到需要网络访问的组件，
//     不允许各组件自行重建（认证刷新等横切行为挂在中间件链上）
//   - 所有方法都接受 context，调用方可独立取消
//   - 非 2xx 响应统一映射为 *StatusError
type Client struct {
	http *http.Client
	base *url.URL
}

// New 创建 Client，middleware 按声明顺序从外到内包裹传输层
func New(cfg *Config, mws ...Middleware) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("解析 API 地址失败: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: Chain(http.DefaultTransport, mws...),
		},
		base: base,
	}, nil
}

// Get 发送 GET 请求并将 JSON 响应解码到 out（out 可为 nil）
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// Post 发送 JSON POST 请求并将响应解码到 out（body、out 均可为 nil）
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// GetBlob 发送 GET 请求并返回原始响应体（PDF/ZIP 等二进制报表）
func (c *Client) GetBlob(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 %s 失败: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// ── 内部辅助 ──

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload) // NewRequest 会据此填充 GetBody，供 401 重试复用
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求 %s 失败: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解码 %s 响应失败: %w", req.URL.Path, err)
	}
	return nil
}

// statusError 将非 2xx 响应体映射为 StatusError
// 兼容后端的三种错误字段习惯：error / detail / message
func statusError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &body)

	msg := body.Error
	if msg == "" {
		msg = body.Detail
	}
	if msg == "" {
		msg = body.Message
	}
	return &StatusError{Status: resp.StatusCode, Message: msg}
}
