package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// APICall records one request received by FakeAPI.
type APICall struct {
	Model         string
	SystemPrompt  string
	UserPrompt    string
	Authorization string
}

// FakeAPI is an httptest server speaking the chat completions protocol.
type FakeAPI struct {
	Server *httptest.Server

	mu     sync.Mutex
	calls  []APICall
	status int
	reply  string
	body   string
}

// NewFakeAPI starts a server that answers every request with reply.
// It is closed when the test ends.
func NewFakeAPI(t *testing.T, reply string) *FakeAPI {
	t.Helper()

	f := &FakeAPI{status: http.StatusOK, reply: reply}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the chat completions endpoint to configure the client with.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/v1/chat/completions"
}

// FailWith makes later requests return status with an OpenAI-style error body.
func (f *FakeAPI) FailWith(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = `{"error":{"message":` + quote(message) + `,"type":"test"}}`
}

// Calls returns a copy of the recorded requests.
func (f *FakeAPI) Calls() []APICall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]APICall(nil), f.calls...)
}

func (f *FakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	call := APICall{Model: req.Model, Authorization: r.Header.Get("Authorization")}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			call.SystemPrompt = m.Content
		case "user":
			call.UserPrompt = m.Content
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	status, reply, body := f.status, f.reply, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + quote(reply) + `}}]}`))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return strings.TrimSpace(string(b))
}
