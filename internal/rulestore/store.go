package rulestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
)

/*
 * Flat-file rule persistence.
 *
 * Each contract gets a directory under the store root holding two named
 * variants plus timestamped snapshots:
 *
 *   <root>/<contractID>/original.json   extraction output
 *   <root>/<contractID>/edited.json     user/AI edited state
 *   <root>/<contractID>/contract-rules-<ts>-<suffix>.json  snapshots
 *
 * The "current" view is edited-if-present else original. There is no
 * optimistic-concurrency check: two sessions editing the same contract
 * clobber each other, last writer wins. Known limitation of the flat-file
 * model, out of scope to fix.
 */

// Variant names the two persisted rule states.
type Variant string

const (
	VariantOriginal Variant = "original"
	VariantEdited   Variant = "edited"
)

// Document is the persisted unit: a rule collection plus the extraction
// metadata that produced it.
type Document struct {
	ContractID    string          `json:"contractId"`
	Summary       string          `json:"summary,omitempty"`
	SearchResults json.RawMessage `json:"searchResults,omitempty"`
	Rules         []rules.Rule    `json:"rules"`
	SavedAt       time.Time       `json:"savedAt"`
}

// Store reads and writes rule documents under a root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating rule store directory: %w", err)
	}
	return &Store{root: dir}, nil
}

func (s *Store) contractDir(contractID string) string {
	return filepath.Join(s.root, contractID)
}

func (s *Store) variantPath(contractID string, v Variant) string {
	return filepath.Join(s.contractDir(contractID), string(v)+".json")
}

// Save writes a document as the given variant for its contract.
func (s *Store) Save(contractID string, v Variant, doc Document) error {
	doc.ContractID = contractID
	doc.SavedAt = time.Now().UTC()

	dir := s.contractDir(contractID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating contract directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling rules: %w", err)
	}
	if err := os.WriteFile(s.variantPath(contractID, v), data, 0o644); err != nil {
		return fmt.Errorf("writing %s rules: %w", v, err)
	}
	return nil
}

// Load reads the given variant. It returns (nil, nil) when the variant has
// never been saved; malformed persisted JSON is a real error.
func (s *Store) Load(contractID string, v Variant) (*Document, error) {
	data, err := os.ReadFile(s.variantPath(contractID, v))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s rules: %w", v, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s rules for contract %s: %w", v, contractID, err)
	}
	return &doc, nil
}

// Current returns the edited variant if present, else the original, else
// (nil, nil) when the contract has never been analyzed.
func (s *Store) Current(contractID string) (*Document, error) {
	edited, err := s.Load(contractID, VariantEdited)
	if err != nil {
		return nil, err
	}
	if edited != nil {
		return edited, nil
	}
	return s.Load(contractID, VariantOriginal)
}

// HasEdited reports whether an edited variant exists.
func (s *Store) HasEdited(contractID string) bool {
	_, err := os.Stat(s.variantPath(contractID, VariantEdited))
	return err == nil
}

// Snapshot writes a timestamped copy of a document alongside the variants,
// returning the file path. Suffix distinguishes snapshot kinds, e.g.
// "-pre-chat".
func (s *Store) Snapshot(contractID string, doc Document, suffix string) (string, error) {
	dir := s.contractDir(contractID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating contract directory: %w", err)
	}

	ts := time.Now().UTC().Format("2006-01-02T15-04-05")
	name := fmt.Sprintf("contract-rules-%s%s.json", ts, suffix)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling snapshot: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// ListContracts returns the contract IDs that have any persisted rules.
func (s *Store) ListContracts() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading rule store: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
