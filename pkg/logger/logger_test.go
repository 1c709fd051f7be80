package logger

import (
	"testing"

	"github.com/midlajmidu/eventloo-sub001/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"控制台格式", config.LogConfig{Level: "debug", Format: "console"}, false},
		{"JSON 格式", config.LogConfig{Level: "info", Format: "json"}, false},
		{"未知格式回退控制台", config.LogConfig{Level: "warn", Format: "text"}, false},
		{"无效级别", config.LogConfig{Level: "loud", Format: "console"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望返回错误")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger 失败: %v", err)
			}
			logger.Debug("构建自检")
		})
	}
}
