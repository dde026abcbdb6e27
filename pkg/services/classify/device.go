package classify

import (
	"strings"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

// Confidence levels per signal source. Protect adoption is authoritative;
// each weaker signal only applies when no stronger one decided.
const (
	confidenceProtect     = 100
	confidenceFingerprint = 85
	confidenceOUI         = 70
	confidenceHostname    = 50

	// ConfidenceThreshold gates Critical vs Informational severity for
	// placement findings.
	ConfidenceThreshold = 70
)

// DeviceClassifier resolves client device categories for one run.
type DeviceClassifier struct {
	protectMACs map[string]string // mac -> camera name
	fingerprint unifi.FingerprintService
}

// NewDeviceClassifier builds a classifier over the run's Protect camera
// list. fingerprint may be nil when the service is unavailable.
func NewDeviceClassifier(cameras []unifi.ProtectCamera, fingerprint unifi.FingerprintService) *DeviceClassifier {
	macs := make(map[string]string, len(cameras))
	for _, c := range cameras {
		macs[normalizeMAC(c.MAC)] = c.Name
	}
	return &DeviceClassifier{protectMACs: macs, fingerprint: fingerprint}
}

// Classify determines the category and confidence for one client. Signals
// are consulted in priority order: Protect adoption, fingerprint database,
// OUI vendor, hostname heuristics. Weaker signals fill gaps (vendor name)
// without overriding a stronger category verdict.
func (dc *DeviceClassifier) Classify(c unifi.Client) domain.DeviceDetectionResult {
	result := domain.DeviceDetectionResult{Category: domain.CategoryUnknown}

	if _, ok := dc.protectMACs[normalizeMAC(c.MAC)]; ok {
		result.Category = domain.CategoryCamera
		result.ConfidenceScore = confidenceProtect
		result.Signal = "protect"
	}

	devID := c.DevIDOverride
	if devID == 0 {
		devID = c.FingerprintDevID
	}
	if dc.fingerprint != nil && devID != 0 {
		if result.VendorName == "" {
			if vendor, ok := dc.fingerprint.LookupVendor(devID); ok {
				result.VendorName = vendor
			}
		}
		if result.Signal == "" {
			if devType, ok := dc.fingerprint.LookupDeviceType(devID); ok {
				if cat, mapped := fingerprintCategory(devType); mapped {
					result.Category = cat
					result.ConfidenceScore = confidenceFingerprint
					result.Signal = "fingerprint"
				}
			}
		}
	}

	if vendor, ok := VendorForMAC(c.MAC); ok {
		if result.VendorName == "" {
			result.VendorName = vendor
		}
		if result.Signal == "" {
			if cat, mapped := vendorCategory(vendor); mapped {
				result.Category = domain.DeviceCategory(cat)
				result.ConfidenceScore = confidenceOUI
				result.Signal = "oui"
			}
		}
	}

	if result.Signal == "" {
		if cat, ok := hostnameCategory(c.Name, c.Hostname); ok {
			result.Category = cat
			result.ConfidenceScore = confidenceHostname
			result.Signal = "hostname"
		}
	}

	return result
}

func fingerprintCategory(devType string) (domain.DeviceCategory, bool) {
	switch strings.ToLower(devType) {
	case "camera", "ip camera", "doorbell":
		return domain.CategoryCamera, true
	case "smart home", "iot", "thermostat", "smart plug", "light", "sensor", "voice assistant":
		return domain.CategoryIoT, true
	case "printer", "multifunction printer":
		return domain.CategoryPrinter, true
	case "media player", "streaming", "speaker":
		return domain.CategoryMediaPlayer, true
	case "smart tv", "television":
		return domain.CategoryTV, true
	case "router", "switch", "access point", "nas", "server":
		return domain.CategoryInfrastructure, true
	case "desktop", "laptop":
		return domain.CategoryComputer, true
	case "smartphone", "tablet":
		return domain.CategoryPhone, true
	}
	return domain.CategoryUnknown, false
}

func hostnameCategory(name, hostname string) (domain.DeviceCategory, bool) {
	s := strings.ToLower(name + " " + hostname)
	switch {
	case containsAny(s, "camera", "cam-", "-cam", "doorbell", "cctv"):
		return domain.CategoryCamera, true
	case containsAny(s, "printer", "officejet", "laserjet", "deskjet"):
		return domain.CategoryPrinter, true
	case containsAny(s, "sonos", "chromecast", "roku", "appletv", "apple-tv", "shield"):
		return domain.CategoryMediaPlayer, true
	case containsAny(s, "-tv", "tv-", "bravia", "webos"):
		return domain.CategoryTV, true
	case containsAny(s, "esp32", "esp8266", "tasmota", "shelly", "plug", "bulb", "thermostat", "vacuum"):
		return domain.CategoryIoT, true
	case containsAny(s, "switch", "unifi", "nas", "synology", "pihole", "pi-hole", "server"):
		return domain.CategoryInfrastructure, true
	}
	return domain.CategoryUnknown, false
}

func normalizeMAC(mac string) string {
	return strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
}

// Clients converts raw controller clients into classified domain clients.
func (dc *DeviceClassifier) Clients(raw []unifi.Client) []domain.ClientInfo {
	out := make([]domain.ClientInfo, 0, len(raw))
	for _, c := range raw {
		out = append(out, domain.ClientInfo{
			MAC:              normalizeMAC(c.MAC),
			Name:             c.Name,
			Hostname:         c.Hostname,
			IP:               c.IP,
			NetworkID:        c.NetworkID,
			VlanID:           c.VlanID,
			IsWired:          c.IsWired,
			FingerprintDevID: c.FingerprintDevID,
			LastSeen:         c.LastSeen,
			Detection:        dc.Classify(c),
		})
	}
	return out
}
