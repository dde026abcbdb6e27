package unifi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	fingerprintURL        = "https://static.ui.com/fingerprint/ui/public.json"
	fingerprintRefreshAge = 24 * time.Hour
)

// fingerprintDB is the public fingerprint database layout: numeric device
// IDs mapped to identity records, plus name tables for type and vendor IDs.
type fingerprintDB struct {
	Devices map[string]struct {
		Name     string `json:"name"`
		TypeID   int    `json:"device_type_id"`
		VendorID int    `json:"vendor_id"`
	} `json:"devices"`
	DeviceTypes map[string]struct {
		Name string `json:"name"`
	} `json:"device_types"`
	Vendors map[string]struct {
		Name string `json:"name"`
	} `json:"vendors"`
}

// Fingerprints caches the public fingerprint database and refreshes it on
// a daily cycle. It implements FingerprintService and is safe for
// concurrent use.
type Fingerprints struct {
	url  string
	http *http.Client

	mu         sync.RWMutex
	db         *fingerprintDB
	fetchedAt  time.Time
	lastFailed bool
}

func NewFingerprints() *Fingerprints {
	return &Fingerprints{
		url:  fingerprintURL,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Refresh fetches the database if the cached copy is stale. A failed fetch
// keeps the previous copy and flips the degraded flag.
func (f *Fingerprints) Refresh(ctx context.Context) {
	f.mu.RLock()
	fresh := f.db != nil && time.Since(f.fetchedAt) < fingerprintRefreshAge
	f.mu.RUnlock()
	if fresh {
		return
	}

	db, err := f.fetch(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastFailed = true
		zerolog.Ctx(ctx).Warn().Err(err).Msg("fingerprint database refresh failed")
		return
	}
	f.db = db
	f.fetchedAt = time.Now()
	f.lastFailed = false
}

func (f *Fingerprints) fetch(ctx context.Context) (*fingerprintDB, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fingerprint fetch: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var db fingerprintDB
	if err := json.Unmarshal(body, &db); err != nil {
		return nil, fmt.Errorf("decode fingerprint database: %w", err)
	}
	return &db, nil
}

func (f *Fingerprints) LookupDeviceName(devID int) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.db == nil {
		return "", false
	}
	dev, ok := f.db.Devices[fmt.Sprint(devID)]
	if !ok || dev.Name == "" {
		return "", false
	}
	return dev.Name, true
}

func (f *Fingerprints) LookupDeviceType(devID int) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.db == nil {
		return "", false
	}
	dev, ok := f.db.Devices[fmt.Sprint(devID)]
	if !ok {
		return "", false
	}
	t, ok := f.db.DeviceTypes[fmt.Sprint(dev.TypeID)]
	if !ok || t.Name == "" {
		return "", false
	}
	return t.Name, true
}

func (f *Fingerprints) LookupVendor(devID int) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.db == nil {
		return "", false
	}
	dev, ok := f.db.Devices[fmt.Sprint(devID)]
	if !ok {
		return "", false
	}
	v, ok := f.db.Vendors[fmt.Sprint(dev.VendorID)]
	if !ok || v.Name == "" {
		return "", false
	}
	return v.Name, true
}

func (f *Fingerprints) LastFetchFailed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastFailed
}
