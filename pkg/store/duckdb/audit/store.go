package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lan-tools/net-atlas/pkg/models/store"
	"github.com/lan-tools/net-atlas/pkg/store/duckdb"
)

// Store persists finished audit runs: flat summary columns plus the JSON
// snapshot body.
type Store interface {
	Save(ctx context.Context, record store.AuditRecord) error
	GetLatest(ctx context.Context, siteID string) (store.AuditRecord, error)
	Get(ctx context.Context, siteID, auditID string) (store.AuditRecord, error)
	ListRecent(ctx context.Context, siteID string, limit int) ([]store.AuditRecord, error)
}

type auditStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &auditStore{db: db}, nil
}

func (s *auditStore) Save(ctx context.Context, record store.AuditRecord) error {
	query := `
		INSERT INTO audit_results (
			id, site, created_at, compliance_score, total_checks,
			passed_checks, failed_checks, warning_checks, findings_json, snapshot
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var err error
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		_, err = tx.ExecContext(ctx, query,
			record.ID, record.SiteID, record.CreatedAt, record.ComplianceScore,
			record.TotalChecks, record.PassedChecks, record.FailedChecks,
			record.WarningChecks, record.FindingsJSON, record.SnapshotJSON)
	} else {
		_, err = s.db.ExecContext(ctx, query,
			record.ID, record.SiteID, record.CreatedAt, record.ComplianceScore,
			record.TotalChecks, record.PassedChecks, record.FailedChecks,
			record.WarningChecks, record.FindingsJSON, record.SnapshotJSON)
	}
	if err != nil {
		return fmt.Errorf("insert audit result: %w", err)
	}
	return nil
}

const selectColumns = `
	id, site, created_at, compliance_score, total_checks,
	passed_checks, failed_checks, warning_checks, findings_json, snapshot`

func (s *auditStore) GetLatest(ctx context.Context, siteID string) (store.AuditRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM audit_results WHERE site = ?
		ORDER BY created_at DESC LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, siteID))
}

func (s *auditStore) Get(ctx context.Context, siteID, auditID string) (store.AuditRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM audit_results WHERE site = ? AND id = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, query, siteID, auditID))
}

func (s *auditStore) ListRecent(ctx context.Context, siteID string, limit int) ([]store.AuditRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM audit_results WHERE site = ?
		ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit results: %w", err)
	}
	defer rows.Close()

	records := make([]store.AuditRecord, 0, limit)
	for rows.Next() {
		var r store.AuditRecord
		var findings, snapshot sql.NullString
		if err := rows.Scan(&r.ID, &r.SiteID, &r.CreatedAt, &r.ComplianceScore,
			&r.TotalChecks, &r.PassedChecks, &r.FailedChecks, &r.WarningChecks,
			&findings, &snapshot); err != nil {
			return nil, err
		}
		r.FindingsJSON = findings.String
		r.SnapshotJSON = snapshot.String
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *auditStore) scanOne(row *sql.Row) (store.AuditRecord, error) {
	var r store.AuditRecord
	var findings, snapshot sql.NullString
	err := row.Scan(&r.ID, &r.SiteID, &r.CreatedAt, &r.ComplianceScore,
		&r.TotalChecks, &r.PassedChecks, &r.FailedChecks, &r.WarningChecks,
		&findings, &snapshot)
	if err != nil {
		return store.AuditRecord{}, fmt.Errorf("scan audit result: %w", err)
	}
	r.FindingsJSON = findings.String
	r.SnapshotJSON = snapshot.String
	return r, nil
}
