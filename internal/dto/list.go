package dto

import "encoding/json"

// List 列表响应包装
// 后端部分接口返回裸数组，部分接口返回 DRF 分页对象 {results: [...]}，
// 两种形态统一解码到 Items
type List[T any] struct {
	Items []T
}

// UnmarshalJSON 兼容裸数组与分页对象
func (l *List[T]) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Items)
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	l.Items = page.Results
	return nil
}
