package download

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"正常文件名", "results_独唱.pdf", "results_独唱.pdf"},
		{"含路径分隔符", "朗诵/独诵.pdf", "朗诵_独诵.pdf"},
		{"含反斜杠", "a\\b.pdf", "a_b.pdf"},
		{"含上级目录", "../../etc/passwd", "____etc_passwd"},
		{"首尾空白", "  report.pdf  ", "report.pdf"},
		{"清洗后为空", "  ", "download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("期望 %q，实际=%q", tt.want, got)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	data := []byte("%PDF-1.4 fake")

	path, err := Save(dir, "results_独唱.pdf", data)
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("文件应落在下载目录内: %s", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取文件失败: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("文件内容不符: %q", got)
	}
}

func TestSave_SanitizesFilename(t *testing.T) {
	dir := t.TempDir()

	path, err := Save(dir, "朗诵/独诵.pdf", []byte("x"))
	if err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("清洗后的文件不应逃出下载目录: %s", path)
	}
}
