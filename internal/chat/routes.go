package chat

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/modify"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// RegisterRoutes mounts the chat API routes.
func RegisterRoutes(r chi.Router, svc *Service, store *rulestore.Store, auditStore *audit.Store) {
	r.Post("/api/chat", handleStatelessChat(svc))
	r.Post("/api/contracts/{contractID}/chat", handleContractChat(svc, store, auditStore))
	r.Get("/api/chat/ws", handleWebSocket(svc, store, auditStore))
}

type chatRequest struct {
	Message         string       `json:"message"`
	Rules           []rules.Rule `json:"rules"`
	ContractContext string       `json:"contractContext"`
}

// handleStatelessChat processes a message against caller-supplied rules
// without persisting anything. The caller applies the modifications.
func handleStatelessChat(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}
		if req.Rules == nil {
			http.Error(w, `{"error":"rules array is required"}`, http.StatusBadRequest)
			return
		}
		if err := rules.ValidateCollection(req.Rules); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		result := svc.ProcessMessage(r.Context(), req.Rules, req.ContractContext, req.Message)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": !result.Failed, "result": result})
	}
}

type contractChatRequest struct {
	Message string `json:"message"`
}

type contractChatResponse struct {
	Success     bool                `json:"success"`
	Result      *Result             `json:"result"`
	Rules       []rules.Rule        `json:"rules"`
	ApplyErrors []modify.ApplyError `json:"applyErrors,omitempty"`
}

// handleContractChat runs a full turn against a persisted contract: load
// current rules, process the message, apply the modifications, persist the
// edited variant, and audit what happened.
func handleContractChat(svc *Service, store *rulestore.Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID := chi.URLParam(r, "contractID")

		var req contractChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}

		turn, status, err := runContractTurn(r, svc, store, auditStore, contractID, req.Message)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(turn)
	}
}

// runContractTurn is the shared body of the HTTP and WebSocket chat paths.
func runContractTurn(r *http.Request, svc *Service, store *rulestore.Store, auditStore *audit.Store, contractID, message string) (*contractChatResponse, int, error) {
	doc, err := store.Current(contractID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if doc == nil {
		return nil, http.StatusNotFound, fmt.Errorf("contract %s has not been analyzed yet", contractID)
	}

	ctx := r.Context()
	auditStore.Log(ctx, audit.Entry{
		ActorType: audit.ActorUser, Action: audit.ActionChatMessage,
		ContractID: contractID, Summary: message,
	})

	result := svc.ProcessMessage(ctx, doc.Rules, doc.Summary, message)
	if result.Failed {
		return &contractChatResponse{Success: false, Result: result, Rules: doc.Rules}, 0, nil
	}
	if len(result.Modifications) == 0 {
		return &contractChatResponse{Success: true, Result: result, Rules: doc.Rules}, 0, nil
	}

	updated, applyErrs := modify.Apply(doc.Rules, result.Modifications)

	failed := make(map[int]bool, len(applyErrs))
	for _, ae := range applyErrs {
		failed[ae.Index] = true
	}
	for i, m := range result.Modifications {
		if failed[i] {
			continue
		}
		auditStore.Log(ctx, audit.Entry{
			ActorType: audit.ActorAssistant, Action: audit.ActionModificationApplied,
			ContractID: contractID, RuleID: m.RuleID,
			Summary: string(m.Action),
		})
	}
	for _, ae := range applyErrs {
		auditStore.Log(ctx, audit.Entry{
			ActorType: audit.ActorAssistant, Action: audit.ActionModificationFailed,
			ContractID: contractID, RuleID: ae.RuleID,
			Summary: ae.Error(), Failed: true,
		})
	}

	// Keep a restorable copy of the pre-edit state; cleanup prunes these.
	if _, err := store.Snapshot(contractID, *doc, "-pre-chat"); err != nil {
		log.Printf("snapshot for contract %s failed: %v", contractID, err)
	}

	edited := *doc
	edited.Rules = updated
	if err := store.Save(contractID, rulestore.VariantEdited, edited); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &contractChatResponse{
		Success:     true,
		Result:      result,
		Rules:       updated,
		ApplyErrors: applyErrs,
	}, 0, nil
}
