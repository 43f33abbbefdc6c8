package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/llm"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	content      string
	err          error
	lastReq      llm.CompletionRequest
	lastDeadline time.Time
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	f.lastDeadline, _ = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func testRules() []rules.Rule {
	return []rules.Rule{{
		ID:   "revenue-share",
		Name: "Revenue Share Rate",
		Tokens: []rules.Token{
			{ID: "1", Type: rules.TokenVariable, Value: "Revshare_rate", Editable: true},
			{ID: "2", Type: rules.TokenOperator, Value: "=", Editable: true},
			{ID: "3", Type: rules.TokenValue, Value: "60%", Editable: true},
		},
	}}
}

func TestProcessMessageParsesModifications(t *testing.T) {
	provider := &fakeProvider{content: `{
		"response": "I'll update the revenue share rate to 25%.",
		"modifications": [{
			"action": "update",
			"ruleId": "revenue-share",
			"tokenUpdates": [{"ruleId": "revenue-share", "tokenId": "3", "newValue": "25"}]
		}]
	}`}
	svc := NewService(provider, "gpt-4o", 0)

	result := svc.ProcessMessage(context.Background(), testRules(), "", "Change revenue share to 25%")

	if result.Failed {
		t.Fatal("expected success")
	}
	if len(result.Modifications) != 1 {
		t.Fatalf("expected 1 modification, got %d", len(result.Modifications))
	}
	m := result.Modifications[0]
	if m.RuleID != "revenue-share" || len(m.TokenUpdates) != 1 || m.TokenUpdates[0].NewValue != "25" {
		t.Errorf("unexpected modification: %+v", m)
	}

	// The request must carry the rule context and use JSON mode.
	if !provider.lastReq.JSONMode {
		t.Error("expected JSON mode")
	}
	if !strings.Contains(provider.lastReq.Messages[0].Content, `"revenue-share"`) {
		t.Error("system prompt missing rule context")
	}
}

func TestProcessMessageEmptyModificationsIsSuccess(t *testing.T) {
	provider := &fakeProvider{content: `{"response": "Could you clarify which rule you mean?"}`}
	svc := NewService(provider, "gpt-4o", 0)

	result := svc.ProcessMessage(context.Background(), testRules(), "", "do the thing")
	if result.Failed {
		t.Error("clarifying reply must not be a failure")
	}
	if result.Modifications == nil || len(result.Modifications) != 0 {
		t.Errorf("expected empty non-nil modifications, got %v", result.Modifications)
	}
}

func TestProcessMessageTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"configured timeout", 5 * time.Minute, 5 * time.Minute},
		{"zero falls back to default", 0, 60 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{content: `{"response":"ok"}`}
			svc := NewService(provider, "gpt-4o", tt.timeout)

			start := time.Now()
			svc.ProcessMessage(context.Background(), testRules(), "", "hello")

			if provider.lastDeadline.IsZero() {
				t.Fatal("no deadline set on provider call")
			}
			got := provider.lastDeadline.Sub(start)
			if got <= 0 || got > tt.want {
				t.Errorf("deadline %v after start, want at most %v", got, tt.want)
			}
			if got < tt.want-5*time.Second {
				t.Errorf("deadline %v after start, want about %v", got, tt.want)
			}
		})
	}
}

func TestProcessMessageFailureModes(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{"provider error", &fakeProvider{err: errors.New("rate limited")}},
		{"malformed reply", &fakeProvider{content: "not json at all"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.provider, "gpt-4o", 0)
			result := svc.ProcessMessage(context.Background(), testRules(), "", "hello")
			if !result.Failed {
				t.Error("expected failed result")
			}
			if result.Response == "" {
				t.Error("failed result must still carry a renderable response")
			}
			if len(result.Modifications) != 0 {
				t.Error("failed result must carry no modifications")
			}
		})
	}
}

func setupContractRouter(t *testing.T, provider llm.Provider) (chi.Router, *rulestore.Store, *audit.Store) {
	t.Helper()
	store, err := rulestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("rulestore.New: %v", err)
	}
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	auditStore := audit.NewStore(database)

	r := chi.NewRouter()
	RegisterRoutes(r, NewService(provider, "gpt-4o", 0), store, auditStore)
	return r, store, auditStore
}

func TestContractChatAppliesAndPersists(t *testing.T) {
	provider := &fakeProvider{content: `{
		"response": "Updating the rate.",
		"modifications": [{
			"action": "update",
			"ruleId": "revenue-share",
			"tokenUpdates": [{"ruleId": "revenue-share", "tokenId": "3", "newValue": "25"}]
		}]
	}`}
	router, store, _ := setupContractRouter(t, provider)

	if err := store.Save("c1", rulestore.VariantOriginal, rulestore.Document{Rules: testRules()}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	body := bytes.NewBufferString(`{"message": "Change revenue share to 25%"}`)
	req := httptest.NewRequest("POST", "/api/contracts/c1/chat", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool         `json:"success"`
		Rules   []rules.Rule `json:"rules"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Rules[0].Tokens[2].Value != "25" {
		t.Errorf("token not updated in response: %+v", resp.Rules[0].Tokens)
	}

	// The edited variant must now take precedence.
	cur, err := store.Current("c1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Rules[0].Tokens[2].Value != "25" {
		t.Error("edited variant not persisted")
	}
}

func TestContractChatWritesPreEditSnapshot(t *testing.T) {
	provider := &fakeProvider{content: `{
		"response": "Updating the rate.",
		"modifications": [{
			"action": "update",
			"ruleId": "revenue-share",
			"tokenUpdates": [{"ruleId": "revenue-share", "tokenId": "3", "newValue": "25"}]
		}]
	}`}

	dir := t.TempDir()
	store, err := rulestore.New(dir)
	if err != nil {
		t.Fatalf("rulestore.New: %v", err)
	}
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	router := chi.NewRouter()
	RegisterRoutes(router, NewService(provider, "gpt-4o", 0), store, audit.NewStore(database))

	if err := store.Save("c1", rulestore.VariantOriginal, rulestore.Document{Rules: testRules()}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/contracts/c1/chat", bytes.NewBufferString(`{"message": "Change revenue share to 25%"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	matches, err := filepath.Glob(filepath.Join(dir, "c1", "contract-rules-*-pre-chat.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 pre-edit snapshot, found %d", len(matches))
	}

	// The snapshot holds the state before the modification was applied.
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	var snap rulestore.Document
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got := snap.Rules[0].Tokens[2].Value; got != "60%" {
		t.Errorf("snapshot token value = %q, want pre-edit %q", got, "60%")
	}
}

func TestContractChatUnknownContract(t *testing.T) {
	router, _, _ := setupContractRouter(t, &fakeProvider{content: `{}`})

	req := httptest.NewRequest("POST", "/api/contracts/ghost/chat", bytes.NewBufferString(`{"message":"hi"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStatelessChatValidatesInput(t *testing.T) {
	router, _, _ := setupContractRouter(t, &fakeProvider{content: `{"response":"ok"}`})

	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{"rules": []}`},
		{"missing rules", `{"message": "hi"}`},
		{"duplicate rule ids", `{"message": "hi", "rules": [{"id":"a","tokens":[]},{"id":"a","tokens":[]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/chat", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}
