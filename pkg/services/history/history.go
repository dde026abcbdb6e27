package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lan-tools/net-atlas/pkg/adapters"
	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
	duckdbaudit "github.com/lan-tools/net-atlas/pkg/store/duckdb/audit"
)

// Service exposes persisted audit runs as domain results. It satisfies
// audit.HistoryStore.
type Service struct {
	store duckdbaudit.Store
}

func NewService(store duckdbaudit.Store) *Service {
	return &Service{store: store}
}

func (s *Service) SaveAuditResult(ctx context.Context, siteID string, result domain.AuditResult) (string, error) {
	result.SiteID = siteID
	record, err := adapters.MapAuditResultDomainToStore(result)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, record); err != nil {
		return "", fmt.Errorf("save audit %s: %w", record.ID, err)
	}
	return record.ID, nil
}

func (s *Service) GetLatestAuditResult(ctx context.Context, siteID string) (domain.AuditResult, error) {
	record, err := s.store.GetLatest(ctx, siteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AuditResult{}, audit.ErrNoAudit
		}
		return domain.AuditResult{}, err
	}
	return adapters.MapAuditRecordStoreToDomain(record)
}

func (s *Service) GetAuditResult(ctx context.Context, siteID, auditID string) (domain.AuditResult, error) {
	record, err := s.store.Get(ctx, siteID, auditID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AuditResult{}, audit.ErrNoAudit
		}
		return domain.AuditResult{}, err
	}
	return adapters.MapAuditRecordStoreToDomain(record)
}

// ListRecent returns up to limit past runs, newest first. Findings and
// snapshots are fully hydrated.
func (s *Service) ListRecent(ctx context.Context, siteID string, limit int) ([]domain.AuditResult, error) {
	records, err := s.store.ListRecent(ctx, siteID, limit)
	if err != nil {
		return nil, err
	}
	results := make([]domain.AuditResult, 0, len(records))
	for _, rec := range records {
		res, err := adapters.MapAuditRecordStoreToDomain(rec)
		if err != nil {
			return nil, fmt.Errorf("decode audit %s: %w", rec.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}
