package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ashaai/asha-server/internal/chat"
	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/llm"
	"github.com/ashaai/asha-server/internal/session"
	"github.com/ashaai/asha-server/internal/vectordb"
	"github.com/ashaai/asha-server/internal/websearch"
)

type stubStore struct {
	results map[listings.Category][]vectordb.SearchResult
}

func (s *stubStore) Add(context.Context, listings.Category, []vectordb.Document) error { return nil }
func (s *stubStore) Search(_ context.Context, category listings.Category, _ string, _ int) ([]vectordb.SearchResult, error) {
	return s.results[category], nil
}
func (s *stubStore) Count(category listings.Category) int  { return len(s.results[category]) }
func (s *stubStore) Persist(context.Context, string) error { return nil }
func (s *stubStore) Load(context.Context, string) error    { return nil }

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.reply}, nil
}
func (p *stubProvider) Name() string { return "stub" }

type stubSearcher struct{ results []websearch.Result }

func (s *stubSearcher) Search(context.Context, string, int) ([]websearch.Result, error) {
	return s.results, nil
}
func (s *stubSearcher) Name() string { return "stub" }

func newTestServer(t *testing.T, store *stubStore, provider *stubProvider) *Server {
	t.Helper()
	sessions := session.NewMemoryStore(time.Hour, 100)
	engine := chat.NewEngine(chat.Options{
		Store:    store,
		Provider: provider,
		Searcher: &stubSearcher{},
		Sessions: sessions,
		Model:    "test-model",
		Logger:   zerolog.Nop(),
	})
	return New(Config{Port: 0, AllowAll: true}, engine, sessions, store, zerolog.Nop())
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	store := &stubStore{results: map[listings.Category][]vectordb.SearchResult{
		listings.CategoryJobs: {{}, {}},
	}}
	srv := newTestServer(t, store, &stubProvider{reply: "x"})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	if body["jobs"] != float64(2) {
		t.Errorf("jobs = %v, want 2", body["jobs"])
	}
	if body["date"] != time.Now().Format("2006-01-02") {
		t.Errorf("date = %v, want today", body["date"])
	}
}

func TestSmartQueryEmptyQuery(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubProvider{reply: "x"})
	w := postJSON(t, srv.Router(), "/asha-smart-query", `{"query":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSmartQueryJobs(t *testing.T) {
	store := &stubStore{results: map[listings.Category][]vectordb.SearchResult{
		listings.CategoryJobs: {{Document: vectordb.Document{
			Content:  "a role at Acme",
			Metadata: vectordb.DocumentMetadata{Category: listings.CategoryJobs, Link: "https://example.com/j/1"},
		}}},
	}}
	srv := newTestServer(t, store, &stubProvider{reply: "Here is a role at Acme."})

	w := postJSON(t, srv.Router(), "/asha-smart-query", `{"query":"any job openings?","user_id":"u1","chat_title":"t1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Source != "RAG-jobs" {
		t.Errorf("source = %q", resp.Source)
	}
	if len(resp.URLs) != 1 || resp.URLs[0] != "https://example.com/j/1" {
		t.Errorf("urls = %v", resp.URLs)
	}
}

func TestSmartQueryUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubProvider{err: errors.New("provider down")})
	// no history and no listing keywords: routes to web, which completes
	// through the failing provider
	w := postJSON(t, srv.Router(), "/asha-smart-query", `{"query":"how do I negotiate salary"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestChatHistoryEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubProvider{reply: "x"})
	router := srv.Router()

	t.Run("missing user_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/chat-history", nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	// seed one exchange
	if w := postJSON(t, router, "/asha-smart-query", `{"query":"who are you?","user_id":"u1","chat_title":"intro"}`); w.Code != http.StatusOK {
		t.Fatalf("seed query status = %d", w.Code)
	}

	t.Run("history round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/chat-history?user_id=u1", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body struct {
			Chats []session.Chat `json:"chats"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(body.Chats) != 1 || body.Chats[0].Title != "intro" {
			t.Fatalf("chats = %+v", body.Chats)
		}
		if len(body.Chats[0].History) != 2 {
			t.Errorf("history has %d messages, want 2", len(body.Chats[0].History))
		}
	})

	t.Run("reset clears the chat", func(t *testing.T) {
		if w := postJSON(t, router, "/reset-history", `{"user_id":"u1","chat_title":"intro"}`); w.Code != http.StatusOK {
			t.Fatalf("reset status = %d", w.Code)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/chat-history?user_id=u1", nil))
		var body struct {
			Chats []session.Chat `json:"chats"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(body.Chats) != 0 {
			t.Errorf("chats remain after reset: %+v", body.Chats)
		}
	})

	t.Run("bodyless reset clears everything", func(t *testing.T) {
		for _, user := range []string{"u2", "u3"} {
			body := fmt.Sprintf(`{"query":"who are you?","user_id":%q,"chat_title":"intro"}`, user)
			if w := postJSON(t, router, "/asha-smart-query", body); w.Code != http.StatusOK {
				t.Fatalf("seed query status = %d", w.Code)
			}
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/reset-history", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("reset status = %d: %s", w.Code, w.Body.String())
		}

		for _, user := range []string{"u2", "u3"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/chat-history?user_id="+user, nil))
			var body struct {
				Chats []session.Chat `json:"chats"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(body.Chats) != 0 {
				t.Errorf("chats for %s remain after global reset: %+v", user, body.Chats)
			}
		}
	})
}

func TestGenerateTitle(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubProvider{reply: "Career Restart Tips"})
	router := srv.Router()

	t.Run("empty content", func(t *testing.T) {
		w := postJSON(t, router, "/generate-title", `{"content":""}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("generates", func(t *testing.T) {
		w := postJSON(t, router, "/generate-title", `{"content":"restarting my career after a break"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body["title"] != "Career Restart Tips" {
			t.Errorf("title = %q", body["title"])
		}
	})
}

func TestWebSocketChat(t *testing.T) {
	srv := newTestServer(t, &stubStore{}, &stubProvider{reply: "x"})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "query", UserID: "u1", Query: "who are you?"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" || resp.Source != chat.SourceIdentity {
		t.Errorf("resp = %+v", resp)
	}

	// empty query over the socket yields an error frame, not a closed
	// connection
	if err := conn.WriteJSON(wsRequest{Type: "query", Query: " "}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("resp = %+v, want error frame", resp)
	}
}

func TestWebSocketOutlivesRequestTimeout(t *testing.T) {
	sessions := session.NewMemoryStore(time.Hour, 100)
	engine := chat.NewEngine(chat.Options{
		Store:    &stubStore{},
		Provider: &stubProvider{reply: "x"},
		Searcher: &stubSearcher{},
		Sessions: sessions,
		Model:    "test-model",
		Logger:   zerolog.Nop(),
	})
	srv := New(Config{Port: 0, AllowAll: true, Timeout: 50 * time.Millisecond}, engine, sessions, &stubStore{}, zerolog.Nop())

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// let the connection age past the HTTP request timeout
	time.Sleep(150 * time.Millisecond)

	if err := conn.WriteJSON(wsRequest{Type: "query", UserID: "u1", Query: "who are you?"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" || resp.Source != chat.SourceIdentity {
		t.Errorf("resp = %+v, want identity response", resp)
	}
}
