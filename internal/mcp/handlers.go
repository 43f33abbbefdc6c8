package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/modify"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/revenue"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// handleListContracts lists contracts with persisted rules.
func (s *Server) handleListContracts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.rules.ListContracts()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing contracts: %v", err)), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText("No contracts have been analyzed yet."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d contract(s):\n\n", len(ids)))
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("- %s", id))
		if s.rules.HasEdited(id) {
			sb.WriteString(" (edited)")
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetRules returns a contract's rules as JSON.
func (s *Server) handleGetRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contractID, err := request.RequireString("contract_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: contract_id"), nil
	}

	var doc *rulestore.Document
	switch variant := request.GetString("variant", "current"); variant {
	case "current":
		doc, err = s.rules.Current(contractID)
	case "original":
		doc, err = s.rules.Load(contractID, rulestore.VariantOriginal)
	case "edited":
		doc, err = s.rules.Load(contractID, rulestore.VariantEdited)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown variant %q", variant)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading rules: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no rules found for contract %q", contractID)), nil
	}

	b, err := json.MarshalIndent(doc.Rules, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshaling rules: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// handleCalculateRevenue runs the calculation pipeline for a contract.
func (s *Server) handleCalculateRevenue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contractID, err := request.RequireString("contract_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: contract_id"), nil
	}

	doc, err := s.rules.Current(contractID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading rules: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no rules found for contract %q", contractID)), nil
	}

	records := revenue.SampleRecords()
	if raw := request.GetString("records", ""); raw != "" {
		records = nil
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parsing records: %v", err)), nil
		}
		if len(records) == 0 {
			return mcp.NewToolResultError("records array is empty"), nil
		}
	}

	results := revenue.Run(doc.Rules, records, nil)
	summary := calc.Summarize(results)

	s.logAudit(ctx, audit.Entry{
		ActorType: audit.ActorAssistant, Action: audit.ActionCalculationRun,
		ContractID: contractID,
		Summary:    fmt.Sprintf("calculated %d records via MCP", summary.Records),
	})

	b, err := json.MarshalIndent(map[string]any{"results": results, "summary": summary}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshaling results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// handleModifyRules applies a modification batch and persists the edited
// rule set.
func (s *Server) handleModifyRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contractID, err := request.RequireString("contract_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: contract_id"), nil
	}
	raw, err := request.RequireString("modifications")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: modifications"), nil
	}

	var mods []modify.Modification
	if err := json.Unmarshal([]byte(raw), &mods); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing modifications: %v", err)), nil
	}
	if len(mods) == 0 {
		return mcp.NewToolResultError("modifications array is empty"), nil
	}

	doc, err := s.rules.Current(contractID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading rules: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no rules found for contract %q", contractID)), nil
	}

	updated, applyErrs := modify.Apply(doc.Rules, mods)
	if err := rules.ValidateCollection(updated); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("modifications produced an invalid rule set: %v", err)), nil
	}

	edited := *doc
	edited.Rules = updated
	if err := s.rules.Save(contractID, rulestore.VariantEdited, edited); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving edited rules: %v", err)), nil
	}

	s.logAudit(ctx, audit.Entry{
		ActorType: audit.ActorAssistant, Action: audit.ActionModificationApplied,
		ContractID: contractID,
		Summary:    fmt.Sprintf("applied %d modification(s) via MCP, %d failed", len(mods)-len(applyErrs), len(applyErrs)),
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applied %d of %d modification(s). Rule count is now %d.\n", len(mods)-len(applyErrs), len(mods), len(updated)))
	for _, ae := range applyErrs {
		sb.WriteString(fmt.Sprintf("- modification %d failed: %s\n", ae.Index, ae.Error()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) logAudit(ctx context.Context, entry audit.Entry) {
	if s.auditStore != nil {
		s.auditStore.Log(ctx, entry)
	}
}
