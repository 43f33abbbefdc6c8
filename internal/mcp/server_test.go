package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/modify"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

func setupServer(t *testing.T) (*Server, *rulestore.Store) {
	t.Helper()
	store, err := rulestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(store, nil), store
}

func seedContract(t *testing.T, store *rulestore.Store, contractID string) {
	t.Helper()
	doc := rulestore.Document{
		Rules: []rules.Rule{
			{
				ID:       "revenue-share",
				Name:     "Revenue Share",
				Category: rules.CategoryFinancial,
				Tokens: []rules.Token{
					{ID: "1", Type: rules.TokenKeyword, Value: "if", Editable: false},
					{ID: "2", Type: rules.TokenVariable, Value: "media_type", Editable: false},
					{ID: "3", Type: rules.TokenOperator, Value: "==", Editable: false},
					{ID: "4", Type: rules.TokenValue, Value: "Text", Editable: true},
					{ID: "5", Type: rules.TokenKeyword, Value: "then", Editable: false},
					{ID: "6", Type: rules.TokenVariable, Value: "cos", Editable: false},
					{ID: "7", Type: rules.TokenOperator, Value: "=", Editable: false},
					{ID: "8", Type: rules.TokenValue, Value: "20", Editable: true},
				},
			},
		},
	}
	if err := store.Save(contractID, rulestore.VariantOriginal, doc); err != nil {
		t.Fatal(err)
	}
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_contracts", listContractsTool, "list_contracts"},
		{"get_rules", getRulesTool, "get_rules"},
		{"calculate_revenue", calculateRevenueTool, "calculate_revenue"},
		{"modify_rules", modifyRulesTool, "modify_rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestModifyRulesDescriptionNamesAcceptedActions(t *testing.T) {
	// The advertised action names must be the ones the applier accepts.
	actions := []modify.Action{modify.ActionUpdate, modify.ActionCreate, modify.ActionDelete, modify.ActionCopy}
	for _, a := range actions {
		if !strings.Contains(modifyRulesTool.Description, string(a)) {
			t.Errorf("description %q does not mention action %q", modifyRulesTool.Description, a)
		}
	}
	for _, stale := range []string{"update_token", "create_rule", "delete_rule", "copy_rule"} {
		if strings.Contains(modifyRulesTool.Description, stale) {
			t.Errorf("description advertises unsupported action name %q", stale)
		}
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := setupServer(t)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleListContracts(t *testing.T) {
	srv, store := setupServer(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		result, err := srv.handleListContracts(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("with contracts", func(t *testing.T) {
		seedContract(t, store, "yahoo-2025")
		result, err := srv.handleListContracts(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(textContent(t, result), "yahoo-2025") {
			t.Errorf("contract id missing from listing: %v", result.Content)
		}
	})
}

func TestHandleGetRules(t *testing.T) {
	srv, store := setupServer(t)
	seedContract(t, store, "c1")
	ctx := context.Background()

	t.Run("current variant", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"contract_id": "c1"}

		result, err := srv.handleGetRules(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		var rs []rules.Rule
		if err := json.Unmarshal([]byte(textContent(t, result)), &rs); err != nil {
			t.Fatalf("tool should return rule JSON: %v", err)
		}
		if len(rs) != 1 || rs[0].ID != "revenue-share" {
			t.Errorf("unexpected rules: %+v", rs)
		}
	})

	t.Run("missing contract_id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGetRules(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing contract_id")
		}
	})

	t.Run("unknown contract", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"contract_id": "ghost"}

		result, err := srv.handleGetRules(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown contract")
		}
	})
}

func TestHandleCalculateRevenue(t *testing.T) {
	srv, store := setupServer(t)
	seedContract(t, store, "c1")
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"contract_id": "c1",
		"records":     `[{"id":"1","contentType":"OneFootball - AC Milan","mediaType":"Text","grossRevenue":100}]`,
	}

	result, err := srv.handleCalculateRevenue(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	// The seeded rule sets cos=20 for text, so post-COS revenue is 80.
	var payload struct {
		Results []struct {
			COS            float64 `json:"cos"`
			RevenuePostCOS float64 `json:"revenuePostCOS"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(textContent(t, result)), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Results) != 1 || payload.Results[0].COS != 20 || payload.Results[0].RevenuePostCOS != 80 {
		t.Errorf("unexpected results: %+v", payload.Results)
	}
}

func TestHandleModifyRules(t *testing.T) {
	srv, store := setupServer(t)
	seedContract(t, store, "c1")
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"contract_id": "c1",
		"modifications": `[{"action":"update","tokenUpdates":[
			{"ruleId":"revenue-share","tokenId":"8","newValue":"35"}
		]}]`,
	}

	result, err := srv.handleModifyRules(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	edited, err := store.Load("c1", rulestore.VariantEdited)
	if err != nil {
		t.Fatal(err)
	}
	if edited == nil {
		t.Fatal("expected edited variant to be persisted")
	}
	if got := edited.Rules[0].Tokens[7].Value; got != "35" {
		t.Errorf("token value = %q, want 35", got)
	}
}

// textContent extracts the first text block of a tool result.
func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("tool result has no text content")
	return ""
}
