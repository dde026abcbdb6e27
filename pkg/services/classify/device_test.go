package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

type staticFingerprints struct {
	types   map[int]string
	vendors map[int]string
}

func (s staticFingerprints) LookupDeviceName(_ int) (string, bool) { return "", false }

func (s staticFingerprints) LookupDeviceType(devID int) (string, bool) {
	t, ok := s.types[devID]
	return t, ok
}

func (s staticFingerprints) LookupVendor(devID int) (string, bool) {
	v, ok := s.vendors[devID]
	return v, ok
}

func (s staticFingerprints) LastFetchFailed() bool { return false }

func TestClassify_ProtectAdoptionIsAuthoritative(t *testing.T) {
	cameras := []unifi.ProtectCamera{{MAC: "AA-BB-CC-DD-EE-FF", Name: "Front Door"}}
	// The fingerprint database disagrees; Protect adoption still wins.
	fp := staticFingerprints{types: map[int]string{7: "smart plug"}}
	dc := NewDeviceClassifier(cameras, fp)

	result := dc.Classify(unifi.Client{MAC: "aa:bb:cc:dd:ee:ff", FingerprintDevID: 7})

	assert.Equal(t, domain.CategoryCamera, result.Category)
	assert.Equal(t, 100, result.ConfidenceScore)
	assert.Equal(t, "protect", result.Signal)
}

func TestClassify_FingerprintBeatsOUI(t *testing.T) {
	fp := staticFingerprints{
		types:   map[int]string{42: "printer"},
		vendors: map[int]string{42: "Brother Industries"},
	}
	dc := NewDeviceClassifier(nil, fp)

	// The Espressif OUI would classify this as IoT without the fingerprint.
	result := dc.Classify(unifi.Client{MAC: "24:0a:c4:11:22:33", FingerprintDevID: 42})

	assert.Equal(t, domain.CategoryPrinter, result.Category)
	assert.Equal(t, 85, result.ConfidenceScore)
	assert.Equal(t, "fingerprint", result.Signal)
	assert.Equal(t, "Brother Industries", result.VendorName)
}

func TestClassify_DevIDOverrideWins(t *testing.T) {
	fp := staticFingerprints{types: map[int]string{1: "smart tv", 2: "laptop"}}
	dc := NewDeviceClassifier(nil, fp)

	result := dc.Classify(unifi.Client{MAC: "02:00:00:00:00:01", FingerprintDevID: 2, DevIDOverride: 1})

	assert.Equal(t, domain.CategoryTV, result.Category)
}

func TestClassify_OUIFallback(t *testing.T) {
	dc := NewDeviceClassifier(nil, nil)

	result := dc.Classify(unifi.Client{MAC: "bc:ad:28:01:02:03"})

	assert.Equal(t, domain.CategoryCamera, result.Category)
	assert.Equal(t, 70, result.ConfidenceScore)
	assert.Equal(t, "oui", result.Signal)
	assert.Equal(t, "Hikvision", result.VendorName)
}

func TestClassify_HostnameIsLastResort(t *testing.T) {
	dc := NewDeviceClassifier(nil, nil)

	tests := []struct {
		name     string
		client   unifi.Client
		category domain.DeviceCategory
	}{
		{name: "camera by name", client: unifi.Client{MAC: "02:00:00:00:00:01", Name: "garage-cam"}, category: domain.CategoryCamera},
		{name: "printer by hostname", client: unifi.Client{MAC: "02:00:00:00:00:02", Hostname: "LASERJET-4F2A"}, category: domain.CategoryPrinter},
		{name: "media player", client: unifi.Client{MAC: "02:00:00:00:00:03", Name: "Living Room Chromecast"}, category: domain.CategoryMediaPlayer},
		{name: "iot device", client: unifi.Client{MAC: "02:00:00:00:00:04", Hostname: "shelly-relay"}, category: domain.CategoryIoT},
		{name: "infrastructure", client: unifi.Client{MAC: "02:00:00:00:00:05", Name: "pihole"}, category: domain.CategoryInfrastructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dc.Classify(tt.client)
			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, 50, result.ConfidenceScore)
			assert.Equal(t, "hostname", result.Signal)
		})
	}
}

func TestClassify_UnknownDevice(t *testing.T) {
	dc := NewDeviceClassifier(nil, nil)

	result := dc.Classify(unifi.Client{MAC: "02:00:00:00:00:01", Name: "Janes-MacBook"})

	assert.Equal(t, domain.CategoryUnknown, result.Category)
	assert.Equal(t, 0, result.ConfidenceScore)
	assert.Empty(t, result.Signal)
}

func TestClassify_OUIWithoutCategoryStillFillsVendor(t *testing.T) {
	dc := NewDeviceClassifier(nil, nil)

	// Amazon ships too many device kinds for a category verdict.
	result := dc.Classify(unifi.Client{MAC: "fc:a1:83:01:02:03"})

	assert.Equal(t, domain.CategoryUnknown, result.Category)
	assert.Equal(t, "Amazon", result.VendorName)
}

func TestVendorForMAC(t *testing.T) {
	vendor, ok := VendorForMAC("B8-27-EB-AA-BB-CC")
	require.True(t, ok)
	assert.Equal(t, "Raspberry Pi", vendor)

	_, ok = VendorForMAC("02:00:00:11:22:33")
	assert.False(t, ok)

	_, ok = VendorForMAC("short")
	assert.False(t, ok)
}

func TestClients_NormalizesAndClassifies(t *testing.T) {
	dc := NewDeviceClassifier([]unifi.ProtectCamera{{MAC: "aa:bb:cc:dd:ee:ff"}}, nil)

	clients := dc.Clients([]unifi.Client{
		{MAC: "AA-BB-CC-DD-EE-FF", Name: "Front Door", IP: "10.0.30.10", VlanID: 30, IsWired: true},
	})

	require.Len(t, clients, 1)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", clients[0].MAC)
	assert.Equal(t, domain.CategoryCamera, clients[0].Detection.Category)
	assert.True(t, clients[0].IsWired)
}
