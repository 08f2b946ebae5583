package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type chatStub struct {
	content string
	status  int
	delay   time.Duration
	gotReq  struct {
		Model       string   `json:"model"`
		Temperature *float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
}

func (s *chatStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, `{"error":{"message":"unauthorized"}}`, http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&s.gotReq)
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		w.Header().Set("Content-Type", "application/json")
		if s.status != 0 {
			w.WriteHeader(s.status)
			w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  s.gotReq.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": s.content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenAI(srv *httptest.Server, timeout time.Duration) Summarizer {
	return NewOpenAI(OpenAIOptions{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1/",
		Model:       "deepseek-chat",
		Temperature: 0.2,
		Timeout:     timeout,
	})
}

func TestOpenAISummarize(t *testing.T) {
	stub := &chatStub{content: "\n### 👑 Sober Queen 诊断报告\n\n正文\n"}
	s := newTestOpenAI(stub.server(t), 5*time.Second)

	got, err := s.Summarize(context.Background(), "【对方】: 你好")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "### 👑 Sober Queen 诊断报告\n\n正文" {
		t.Errorf("Summarize() = %q", got)
	}

	req := stub.gotReq
	if req.Model != "deepseek-chat" || req.Temperature == nil || *req.Temperature != 0.2 {
		t.Errorf("request model/temperature = %s/%v", req.Model, req.Temperature)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Fatalf("messages = %+v", req.Messages)
	}
	if req.Messages[0].Content != systemPrompt || req.Messages[1].Content != "【对方】: 你好" {
		t.Errorf("message contents not forwarded")
	}
}

func TestOpenAIZeroTemperatureIsSent(t *testing.T) {
	stub := &chatStub{content: "正文"}
	s := NewOpenAI(OpenAIOptions{
		APIKey:  "sk-test",
		BaseURL: stub.server(t).URL + "/v1",
		Model:   "deepseek-chat",
		Timeout: 5 * time.Second,
	})

	if _, err := s.Summarize(context.Background(), "【我】: 在"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if tp := stub.gotReq.Temperature; tp == nil || *tp > 1e-6 {
		t.Errorf("temperature = %v, want a near-zero value in the request", tp)
	}
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		name      string
		stub      *chatStub
		timeout   time.Duration
		wantEmpty bool
		wantTO    bool
	}{
		{"empty content", &chatStub{content: "   "}, 5 * time.Second, true, false},
		{"server error", &chatStub{status: http.StatusInternalServerError}, 5 * time.Second, false, false},
		{"timeout", &chatStub{content: "late", delay: 300 * time.Millisecond}, 50 * time.Millisecond, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestOpenAI(tt.stub.server(t), tt.timeout)
			_, err := s.Summarize(context.Background(), "【我】: 在")
			if err == nil {
				t.Fatal("Summarize() error = nil")
			}
			if errors.Is(err, ErrEmptyResponse) != tt.wantEmpty {
				t.Errorf("ErrEmptyResponse mismatch: %v", err)
			}
			if errors.Is(err, ErrTimeout) != tt.wantTO {
				t.Errorf("ErrTimeout mismatch: %v", err)
			}
		})
	}
}
