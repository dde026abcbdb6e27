package dismissed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lan-tools/net-atlas/pkg/models/store"
)

// Store is the site-scoped dismissed-issue table. It satisfies the audit
// package's DismissalStore interface.
type Store interface {
	List(ctx context.Context, siteID string) ([]string, error)
	ListDetailed(ctx context.Context, siteID string) ([]store.DismissedIssue, error)
	Add(ctx context.Context, siteID, issueKey string) error
	Remove(ctx context.Context, siteID, issueKey string) error
	Clear(ctx context.Context, siteID string) error
}

type dismissedStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &dismissedStore{db: db}, nil
}

func (s *dismissedStore) List(ctx context.Context, siteID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT issue_key FROM dismissed_issues WHERE site = ?`, siteID)
	if err != nil {
		return nil, fmt.Errorf("list dismissed issues: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *dismissedStore) ListDetailed(ctx context.Context, siteID string) ([]store.DismissedIssue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT site, issue_key, dismissed_at FROM dismissed_issues WHERE site = ? ORDER BY dismissed_at`, siteID)
	if err != nil {
		return nil, fmt.Errorf("list dismissed issues: %w", err)
	}
	defer rows.Close()

	var out []store.DismissedIssue
	for rows.Next() {
		var d store.DismissedIssue
		if err := rows.Scan(&d.SiteID, &d.IssueKey, &d.DismissedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *dismissedStore) Add(ctx context.Context, siteID, issueKey string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dismissed_issues (site, issue_key, dismissed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (site, issue_key) DO NOTHING`,
		siteID, issueKey, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert dismissed issue: %w", err)
	}
	return nil
}

func (s *dismissedStore) Remove(ctx context.Context, siteID, issueKey string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM dismissed_issues WHERE site = ? AND issue_key = ?`, siteID, issueKey)
	if err != nil {
		return fmt.Errorf("delete dismissed issue: %w", err)
	}
	return nil
}

func (s *dismissedStore) Clear(ctx context.Context, siteID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM dismissed_issues WHERE site = ?`, siteID)
	if err != nil {
		return fmt.Errorf("clear dismissed issues: %w", err)
	}
	return nil
}
