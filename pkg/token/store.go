package token

import (
	"errors"
	"sync"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken = errors.New("尚未登录，无可用 Token")
)

// Store Access/Refresh Token 对的并发安全持有者
// 进程内唯一实例，由 HTTP 客户端拦截器与登录流程共享引用
type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewStore 创建空 Token 仓库
func NewStore() *Store {
	return &Store{}
}

// SetPair 登录或刷新成功后写入 Token 对
// refresh 为空串时保留原有 Refresh Token（刷新接口只返回新 Access Token）
func (s *Store) SetPair(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
}

// Access 返回当前 Access Token；未登录时返回 ErrNoToken
func (s *Store) Access() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.access == "" {
		return "", ErrNoToken
	}
	return s.access, nil
}

// Refresh 返回当前 Refresh Token；不存在时返回 ErrNoToken
func (s *Store) Refresh() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.refresh == "" {
		return "", ErrNoToken
	}
	return s.refresh, nil
}

// Clear 清空 Token 对（刷新失败后调用，等价于登出）
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

// AccessExpired 检查 Access Token 是否已过期（含 leeway 提前量）
// 仅做本地声明解析，不校验签名 —— 签名校验是后端的职责，
// 这里只为减少一次必然失败的请求往返
func (s *Store) AccessExpired(leeway time.Duration) bool {
	s.mu.RLock()
	access := s.access
	s.mu.RUnlock()

	if access == "" {
		return true
	}

	claims := jwtv5.RegisteredClaims{}
	parser := jwtv5.NewParser()
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false // 无过期声明，交给后端判定
	}
	return time.Now().Add(leeway).After(claims.ExpiresAt.Time)
}
