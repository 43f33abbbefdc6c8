package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{ActorType: ActorAssistant, Action: ActionModificationApplied, ContractID: "c1", RuleID: "revenue-share", Summary: "updated token 3 to 25"},
		{ActorType: ActorUser, Action: ActionChatMessage, ContractID: "c1", Summary: "change revenue share to 25%"},
		{ActorType: ActorSystem, Action: ActionRulesExtracted, ContractID: "c2", Summary: "14 rules extracted"},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].ID == "" {
		t.Error("expected generated IDs")
	}

	c1, _ := store.List(ctx, ListFilter{ContractID: "c1"})
	if len(c1) != 2 {
		t.Errorf("expected 2 entries for c1, got %d", len(c1))
	}

	chats, _ := store.List(ctx, ListFilter{Action: ActionChatMessage})
	if len(chats) != 1 {
		t.Errorf("expected 1 chat entry, got %d", len(chats))
	}

	count, err := store.CountByContract(ctx, "c1")
	if err != nil {
		t.Fatalf("CountByContract: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestFailedFlagRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Log(ctx, Entry{
		Action: ActionModificationFailed, ContractID: "c1", Failed: true,
		Summary: "copy rule \"ghost\": rule not found",
	}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	got, _ := store.List(ctx, ListFilter{ContractID: "c1"})
	if len(got) != 1 || !got[0].Failed {
		t.Errorf("expected failed entry, got %+v", got)
	}
}

func TestListRoute(t *testing.T) {
	store := setupTestStore(t)
	store.Log(context.Background(), Entry{Action: ActionCalculationRun, ContractID: "c9", Summary: "5 records"})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest("GET", "/api/audit/?contract_id=c9", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var entries []Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].ContractID != "c9" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
