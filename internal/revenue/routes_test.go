package revenue

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

func setupRouter(t *testing.T) (*chi.Mux, *rulestore.Store) {
	t.Helper()

	store, err := rulestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	r := chi.NewRouter()
	RegisterRoutes(r, store, audit.NewStore(database))
	return r, store
}

func TestCalculateEndpoint(t *testing.T) {
	r, store := setupRouter(t)

	// Unknown contract.
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/ghost/calculate", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown contract status = %d, want 404", w.Code)
	}

	if err := store.Save("c1", rulestore.VariantOriginal, rulestore.Document{}); err != nil {
		t.Fatal(err)
	}

	// Empty records fall back to the bundled sample set.
	req = httptest.NewRequest(http.MethodPost, "/api/contracts/c1/calculate", strings.NewReader("{}"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp calculateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 5 || resp.Summary.Records != 5 {
		t.Errorf("results = %d, summary records = %d", len(resp.Results), resp.Summary.Records)
	}

	// CSV export variant.
	req = httptest.NewRequest(http.MethodPost, "/api/contracts/c1/calculate?format=csv", strings.NewReader("{}"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("csv status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), `"TOTAL"`) {
		t.Errorf("csv export missing totals: %s", w.Body.String())
	}
}

func TestCalculateUploadEndpoint(t *testing.T) {
	r, store := setupRouter(t)
	if err := store.Save("c1", rulestore.VariantOriginal, rulestore.Document{}); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("report", "report.csv")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(messyReport))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/c1/calculate/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp calculateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].ContentType != "OneFootball - X" {
		t.Errorf("ContentType = %q", resp.Results[0].ContentType)
	}

	// Unsupported extension.
	body.Reset()
	mw = multipart.NewWriter(&body)
	part, _ = mw.CreateFormFile("report", "report.pdf")
	part.Write([]byte("%PDF"))
	mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/contracts/c1/calculate/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("pdf upload status = %d, want 400", w.Code)
	}
}
