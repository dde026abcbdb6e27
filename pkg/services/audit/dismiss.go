package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// DismissalStore is the persistence surface for dismissed-issue keys.
type DismissalStore interface {
	List(ctx context.Context, siteID string) ([]string, error)
	Add(ctx context.Context, siteID, issueKey string) error
	Remove(ctx context.Context, siteID, issueKey string) error
	Clear(ctx context.Context, siteID string) error
}

// IssueKey derives the stable identity a dismissal is keyed by. Findings
// are rebuilt from scratch every run, so the key must depend only on what
// the finding describes, never on the run that produced it.
func IssueKey(issue domain.AuditIssue) string {
	return fmt.Sprintf("%s|%s|%d", DisplayTitle(issue.Type, issue.Severity), issue.DeviceName, issue.Port)
}

// Ledger tracks dismissed findings per site. Site state is hydrated from
// storage once per ledger lifetime and then maintained in memory; dismiss
// and restore write through to the store.
type Ledger struct {
	store DismissalStore

	mu    sync.Mutex
	sites map[string]*siteLedger
}

type siteLedger struct {
	mu     sync.RWMutex
	loaded bool
	keys   map[string]struct{}
}

func NewLedger(store DismissalStore) *Ledger {
	return &Ledger{
		store: store,
		sites: make(map[string]*siteLedger),
	}
}

func (l *Ledger) site(siteID string) *siteLedger {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl, ok := l.sites[siteID]
	if !ok {
		sl = &siteLedger{keys: make(map[string]struct{})}
		l.sites[siteID] = sl
	}
	return sl
}

// hydrate loads the persisted keys exactly once. A failed load still marks
// the site loaded: retrying on every call would hammer a broken store, and
// one stale read is the cheaper failure.
func (l *Ledger) hydrate(ctx context.Context, siteID string, sl *siteLedger) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.loaded {
		return
	}
	sl.loaded = true

	keys, err := l.store.List(ctx, siteID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("site", siteID).
			Msg("failed to hydrate dismissed issues, continuing with empty set")
		return
	}
	for _, k := range keys {
		sl.keys[k] = struct{}{}
	}
}

// Dismiss marks a finding dismissed. Re-dismissing is a no-op.
func (l *Ledger) Dismiss(ctx context.Context, siteID string, issue domain.AuditIssue) error {
	sl := l.site(siteID)
	l.hydrate(ctx, siteID, sl)
	key := IssueKey(issue)

	sl.mu.Lock()
	if _, exists := sl.keys[key]; exists {
		sl.mu.Unlock()
		return nil
	}
	sl.keys[key] = struct{}{}
	sl.mu.Unlock()

	if err := l.store.Add(ctx, siteID, key); err != nil {
		return fmt.Errorf("persist dismissal: %w", err)
	}
	return nil
}

// Restore makes a dismissed finding active again.
func (l *Ledger) Restore(ctx context.Context, siteID string, issue domain.AuditIssue) error {
	sl := l.site(siteID)
	l.hydrate(ctx, siteID, sl)
	key := IssueKey(issue)

	sl.mu.Lock()
	delete(sl.keys, key)
	sl.mu.Unlock()

	if err := l.store.Remove(ctx, siteID, key); err != nil {
		return fmt.Errorf("remove dismissal: %w", err)
	}
	return nil
}

// Clear drops every dismissal for the site.
func (l *Ledger) Clear(ctx context.Context, siteID string) error {
	sl := l.site(siteID)
	l.hydrate(ctx, siteID, sl)

	sl.mu.Lock()
	sl.keys = make(map[string]struct{})
	sl.mu.Unlock()

	if err := l.store.Clear(ctx, siteID); err != nil {
		return fmt.Errorf("clear dismissals: %w", err)
	}
	return nil
}

// IsDismissed reports whether the finding's key is in the site's set.
func (l *Ledger) IsDismissed(ctx context.Context, siteID string, issue domain.AuditIssue) bool {
	sl := l.site(siteID)
	l.hydrate(ctx, siteID, sl)

	sl.mu.RLock()
	defer sl.mu.RUnlock()
	_, ok := sl.keys[IssueKey(issue)]
	return ok
}

// Split partitions findings into active and dismissed without mutating
// either finding.
func (l *Ledger) Split(ctx context.Context, siteID string, issues []domain.AuditIssue) (active, dismissed []domain.AuditIssue) {
	sl := l.site(siteID)
	l.hydrate(ctx, siteID, sl)

	sl.mu.RLock()
	defer sl.mu.RUnlock()
	for _, issue := range issues {
		if _, ok := sl.keys[IssueKey(issue)]; ok {
			dismissed = append(dismissed, issue)
		} else {
			active = append(active, issue)
		}
	}
	return active, dismissed
}
