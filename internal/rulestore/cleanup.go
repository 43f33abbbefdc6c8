package rulestore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultCleanupPatterns matches the transient files Cleanup may remove.
// The named variants (original.json, edited.json) are never eligible.
var DefaultCleanupPatterns = []string{
	"*/contract-rules-*.json",
	"tmp/**",
}

// Cleanup deletes files under the store root that match any of the glob
// patterns and are older than maxAge. It returns the number of files
// removed. Removal errors are logged and skipped so one stuck file does
// not abort the sweep.
func (s *Store) Cleanup(maxAge time.Duration, patterns []string) (int, error) {
	if len(patterns) == 0 {
		patterns = DefaultCleanupPatterns
	}
	cutoff := time.Now().Add(-maxAge)

	removed := 0
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if !matchesAny(filepath.ToSlash(rel), patterns) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.Printf("rulestore: cleanup could not remove %s: %v", rel, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("sweeping rule store: %w", err)
	}
	return removed, nil
}

// matchesAny checks if relPath matches any of the given glob patterns,
// using doublestar for ** support.
func matchesAny(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, relPath); err == nil && ok {
			return true
		}
	}
	return false
}
