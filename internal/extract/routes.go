package extract

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// RegisterRoutes mounts the contract analysis and rule persistence routes.
func RegisterRoutes(r chi.Router, svc *Service, store *rulestore.Store, auditStore *audit.Store) {
	r.Post("/api/contracts/analyze", handleAnalyze(svc, store, auditStore))
	r.Get("/api/contracts/{contractID}/rules", handleGetRules(store))
	r.Put("/api/contracts/{contractID}/rules", handleSaveRules(store, auditStore))
	r.Get("/api/contracts/{contractID}/summary", handleGetSummary(store))
	r.Get("/api/contracts/", handleListContracts(store))
}

type analyzeRequest struct {
	ContractID string `json:"contractId"`
	Text       string `json:"text"`
}

type analyzeResponse struct {
	Success bool    `json:"success"`
	Result  *Result `json:"result"`
}

// handleAnalyze runs extraction over contract text and persists the result
// as the original variant. Re-analyzing overwrites the original but leaves
// any edited variant alone.
func handleAnalyze(svc *Service, store *rulestore.Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.ContractID == "" {
			http.Error(w, `{"error":"contractId is required"}`, http.StatusBadRequest)
			return
		}
		if req.Text == "" {
			http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
			return
		}

		result, err := svc.ProcessContract(r.Context(), req.Text)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadGateway)
			return
		}

		searchResults, _ := json.Marshal(result.SearchResults)
		doc := rulestore.Document{
			Summary:       result.Summary,
			SearchResults: searchResults,
			Rules:         result.Rules,
		}
		if err := store.Save(req.ContractID, rulestore.VariantOriginal, doc); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		auditStore.Log(r.Context(), audit.Entry{
			ActorType: audit.ActorSystem, Action: audit.ActionRulesExtracted,
			ContractID: req.ContractID,
			Summary:    fmt.Sprintf("extracted %d rules", len(result.Rules)),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analyzeResponse{Success: true, Result: result})
	}
}

type rulesResponse struct {
	ContractID string       `json:"contractId"`
	Original   []rules.Rule `json:"original,omitempty"`
	Edited     []rules.Rule `json:"edited,omitempty"`
	Current    []rules.Rule `json:"current"`
	HasEdited  bool         `json:"hasEdited"`
}

func handleGetRules(store *rulestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID := chi.URLParam(r, "contractID")

		original, err := store.Load(contractID, rulestore.VariantOriginal)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		edited, err := store.Load(contractID, rulestore.VariantEdited)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if original == nil && edited == nil {
			http.Error(w, `{"error":"contract has not been analyzed yet"}`, http.StatusNotFound)
			return
		}

		resp := rulesResponse{ContractID: contractID, HasEdited: edited != nil}
		if original != nil {
			resp.Original = original.Rules
			resp.Current = original.Rules
		}
		if edited != nil {
			resp.Edited = edited.Rules
			resp.Current = edited.Rules
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

type saveRulesRequest struct {
	Rules []rules.Rule `json:"rules"`
}

// handleSaveRules persists a caller-edited rule set as the edited variant.
func handleSaveRules(store *rulestore.Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID := chi.URLParam(r, "contractID")

		var req saveRulesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
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

		doc, err := store.Current(contractID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		edited := rulestore.Document{Rules: req.Rules}
		if doc != nil {
			edited.Summary = doc.Summary
			edited.SearchResults = doc.SearchResults
		}
		if err := store.Save(contractID, rulestore.VariantEdited, edited); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		auditStore.Log(r.Context(), audit.Entry{
			ActorType: audit.ActorUser, Action: audit.ActionRulesSaved,
			ContractID: contractID,
			Summary:    fmt.Sprintf("saved %d rules", len(req.Rules)),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "ruleCount": len(req.Rules)})
	}
}

// handleGetSummary returns the contract summary, as markdown by default or
// rendered to HTML with ?format=html.
func handleGetSummary(store *rulestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID := chi.URLParam(r, "contractID")

		doc, err := store.Current(contractID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if doc == nil {
			http.Error(w, `{"error":"contract has not been analyzed yet"}`, http.StatusNotFound)
			return
		}

		if r.URL.Query().Get("format") == "html" {
			rendered, err := RenderSummary(doc.Summary)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(rendered))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"contractId": contractID, "summary": doc.Summary})
	}
}

func handleListContracts(store *rulestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := store.ListContracts()
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"contracts": ids})
	}
}
