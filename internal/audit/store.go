package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
)

// Store provides CRUD operations for audit entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new audit entry. If entry.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ActorType == "" {
		entry.ActorType = ActorSystem
	}

	failed := 0
	if entry.Failed {
		failed = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (
			id, timestamp, actor_type, actor_id, action,
			contract_id, rule_id, summary, detail, failed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp,
		string(entry.ActorType),
		entry.ActorID,
		string(entry.Action),
		entry.ContractID,
		entry.RuleID,
		entry.Summary,
		entry.Detail,
		failed,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// List returns entries matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	query := `SELECT id, timestamp, actor_type, actor_id, action, contract_id, rule_id, summary, detail, failed
		 FROM audit_entries WHERE 1=1`
	args := []interface{}{}

	if filter.ContractID != "" {
		query += " AND contract_id = ?"
		args = append(args, filter.ContractID)
	}
	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, string(filter.Action))
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var failed int
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorType, &e.ActorID, &e.Action,
			&e.ContractID, &e.RuleID, &e.Summary, &e.Detail, &failed); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Failed = failed != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByContract returns the number of entries recorded for a contract.
func (s *Store) CountByContract(ctx context.Context, contractID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_entries WHERE contract_id = ?`, contractID,
	).Scan(&count)
	return count, err
}
