package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediq/internal/llm"
	"mediq/internal/orchestrator"
	"mediq/internal/service"
	"mediq/internal/synthesis"
	"mediq/internal/types"
)

type stubKeyword struct{}

func (stubKeyword) Search(string) types.RetrievalResult {
	return types.RetrievalResult{Success: true, Method: types.MethodKeyword}
}

func newTestServer(mock *llm.MockClient) *Server {
	orch := orchestrator.New(stubKeyword{}, nil, nil, nil, nil, nil)
	svc := service.New(orch, synthesis.New(mock, nil), nil, nil, nil)
	cfg := DefaultConfig()
	cfg.Debug = false
	return New(svc, cfg, nil, nil)
}

func postQuery(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHandleQuerySuccess(t *testing.T) {
	srv := newTestServer(llm.NewMockClient("回答內容。"))

	w := postQuery(t, srv, `{"query": " 王醫師的專長 ", "mode": "simple"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Query != "王醫師的專長" {
		t.Errorf("query = %q, want trimmed", resp.Query)
	}
	if resp.Response != "回答內容。" {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestHandleQueryValidation(t *testing.T) {
	srv := newTestServer(llm.NewMockClient("不應該被呼叫"))

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"missing query", `{}`},
		{"blank query", `{"query": "   "}`},
		{"too long", `{"query": "` + strings.Repeat("問", 501) + `"}`},
		{"bad mode", `{"query": "查詢", "mode": "turbo"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postQuery(t, srv, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleQueryBoundaryLength(t *testing.T) {
	srv := newTestServer(llm.NewMockClient("回答。"))

	// Exactly 500 runes passes validation.
	w := postQuery(t, srv, `{"query": "`+strings.Repeat("問", 500)+`"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 at the boundary", w.Code)
	}
}

func TestHandleQuerySynthesisFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = context.DeadlineExceeded
	srv := newTestServer(mock)

	w := postQuery(t, srv, `{"query": "查詢"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "AI 分析失敗" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(llm.NewMockClient())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
}
