package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Save 将后端返回的二进制报表写入 dir/filename 并返回完整路径
// 文件名经过清洗，目录不存在时自动创建
func Save(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建下载目录失败: %w", err)
	}

	path := filepath.Join(dir, Sanitize(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return path, nil
}

// Sanitize 清洗文件名中的路径分隔符与空白
// 项目名可能含 "/"（如 "朗诵/独诵"），直接拼路径会逃出下载目录
func Sanitize(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		"\x00", "",
	)
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		return "download"
	}
	return name
}
