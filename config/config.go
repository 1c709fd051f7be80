package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Marks    MarksConfig    `mapstructure:"marks"`
	Download DownloadConfig `mapstructure:"download"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig 后端 REST API 配置
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"` // 含 /api 前缀
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig 登录凭据配置
// 仅用于控制台启动时换取 Token；后续刷新由 HTTP 客户端拦截器自动完成
type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MarksConfig 评分配置
type MarksConfig struct {
	DefaultMaxMarks float64 `mapstructure:"default_max_marks"` // 单评委满分
}

// DownloadConfig 文件下载配置
type DownloadConfig struct {
	Dir string `mapstructure:"dir"` // PDF/ZIP 报表保存目录
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("marks.default_max_marks", 100.0)

	v.SetDefault("download.dir", "./downloads")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("EVENTLOO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("配置校验失败: api.base_url 不能为空")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("配置校验失败: api.timeout 必须为正")
	}
	if c.Marks.DefaultMaxMarks <= 0 {
		return fmt.Errorf("配置校验失败: marks.default_max_marks 必须为正")
	}
	return nil
}
