package apiclient

import (
	"errors"
	"fmt"
)

// StatusError 后端返回的非 2xx 响应
// Message 取自响应体的 error/detail/message 字段，便于直接展示给操作员
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("后端返回 HTTP %d", e.Status)
	}
	return fmt.Sprintf("后端返回 HTTP %d: %s", e.Status, e.Message)
}

// IsStatus 判断 err（或其包装链）是否为指定状态码的 StatusError
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
