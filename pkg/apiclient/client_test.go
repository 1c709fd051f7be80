package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, mws ...Middleware) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&Config{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, mws...)
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	return client, srv
}

func TestClient_Get(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/5/programs/" {
			t.Errorf("路径不符: %s", r.URL.Path)
		}
		if r.URL.Query().Get("page_size") != "100" {
			t.Errorf("缺少 page_size 查询参数: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 5, "name": "独唱"})
	}))

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	query := url.Values{"page_size": {"100"}}
	if err := client.Get(context.Background(), "/events/5/programs/", query, &out); err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if out.ID != 5 || out.Name != "独唱" {
		t.Errorf("解码结果不符: %+v", out)
	}
}

func TestClient_Post(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("期望 POST，实际=%s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type 不符: %s", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("解码请求体失败: %v", err)
		}
		if body["username"] != "admin" {
			t.Errorf("请求体不符: %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"access": "tok"})
	}))

	var out struct {
		Access string `json:"access"`
	}
	in := map[string]string{"username": "admin"}
	if err := client.Post(context.Background(), "/token/", in, &out); err != nil {
		t.Fatalf("Post 失败: %v", err)
	}
	if out.Access != "tok" {
		t.Errorf("期望 access=tok，实际=%s", out.Access)
	}
}

func TestClient_GetBlob(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))

	blob, err := client.GetBlob(context.Background(), "/reports/1/", nil)
	if err != nil {
		t.Fatalf("GetBlob 失败: %v", err)
	}
	if string(blob) != string(pdf) {
		t.Errorf("二进制内容不符: %q", blob)
	}
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error 字段", http.StatusBadRequest, `{"error":"成绩格式错误"}`, "成绩格式错误"},
		{"detail 字段", http.StatusUnauthorized, `{"detail":"认证已失效"}`, "认证已失效"},
		{"message 字段", http.StatusNotFound, `{"message":"项目不存在"}`, "项目不存在"},
		{"非 JSON 响应体", http.StatusInternalServerError, `<html>oops</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			err := client.Get(context.Background(), "/x/", nil, nil)
			if err == nil {
				t.Fatal("期望返回错误")
			}
			if !IsStatus(err, tt.status) {
				t.Errorf("期望状态码=%d，实际=%v", tt.status, err)
			}
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("期望 *StatusError，实际=%T", err)
			}
			if se.Message != tt.wantMsg {
				t.Errorf("期望消息=%q，实际=%q", tt.wantMsg, se.Message)
			}
		})
	}
}

func TestClient_ContextCancel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := client.Get(ctx, "/slow/", nil, nil); err == nil {
		t.Fatal("期望超时错误")
	}
}
