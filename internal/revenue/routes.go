package revenue

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

// RegisterRoutes mounts the calculation routes.
func RegisterRoutes(r chi.Router, store *rulestore.Store, auditStore *audit.Store) {
	r.Post("/api/contracts/{contractID}/calculate", handleCalculate(store, auditStore))
	r.Post("/api/contracts/{contractID}/calculate/upload", handleCalculateUpload(store, auditStore))
}

type calculateRequest struct {
	Records []calc.Record `json:"records"`
}

type calculateResponse struct {
	Success bool          `json:"success"`
	Results []calc.Result `json:"results"`
	Summary calc.Summary  `json:"summary"`
}

const maxUploadBytes = 16 << 20

// handleCalculate runs the contract's current rules over caller-supplied
// records, or the bundled sample set when none are given.
func handleCalculate(store *rulestore.Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID := chi.URLParam(r, "contractID")

		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		records := req.Records
		if len(records) == 0 {
			records = SampleRecords()
		}

		runCalculation(w, r, store, auditStore, contractID, records)
	}
}

// handleCalculateUpload accepts a multipart CSV or XLSX report and runs
// the contract's rules over it. Format is picked by file extension.
func handleCalculateUpload(store *rulestore.Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contractID := chi.URLParam(r, "contractID")

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, `{"error":"invalid multipart form"}`, http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("report")
		if err != nil {
			http.Error(w, `{"error":"report file is required"}`, http.StatusBadRequest)
			return
		}
		defer file.Close()

		var records []calc.Record
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".csv":
			records, err = ParseCSV(file)
		case ".xlsx":
			records, err = ParseXLSX(file)
		default:
			http.Error(w, `{"error":"unsupported report format, want .csv or .xlsx"}`, http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		if len(records) == 0 {
			http.Error(w, `{"error":"report contains no records"}`, http.StatusBadRequest)
			return
		}

		runCalculation(w, r, store, auditStore, contractID, records)
	}
}

func runCalculation(w http.ResponseWriter, r *http.Request, store *rulestore.Store, auditStore *audit.Store, contractID string, records []calc.Record) {
	doc, err := store.Current(contractID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, `{"error":"contract has not been analyzed yet"}`, http.StatusNotFound)
		return
	}

	results := Run(doc.Rules, records, nil)
	summary := calc.Summarize(results)

	auditStore.Log(r.Context(), audit.Entry{
		ActorType: audit.ActorUser, Action: audit.ActionCalculationRun,
		ContractID: contractID,
		Summary:    fmt.Sprintf("calculated %d records, gross %.2f", summary.Records, summary.GrossRevenue),
	})

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
		if err := ExportCSV(w, results); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
		if err := ExportXLSX(w, results); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(calculateResponse{Success: true, Results: results, Summary: summary})
	}
}
