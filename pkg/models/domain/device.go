package domain

import "time"

// DeviceCategory is the classifier's verdict about what a device is.
type DeviceCategory string

const (
	CategoryIoT            DeviceCategory = "iot"
	CategoryCamera         DeviceCategory = "camera"
	CategoryPrinter        DeviceCategory = "printer"
	CategoryMediaPlayer    DeviceCategory = "media-player"
	CategoryTV             DeviceCategory = "tv"
	CategoryInfrastructure DeviceCategory = "infrastructure"
	CategoryComputer       DeviceCategory = "computer"
	CategoryPhone          DeviceCategory = "phone"
	CategoryUnknown        DeviceCategory = "unknown"
)

// DeviceDetectionResult is derived per run from the Protect camera list,
// fingerprint lookups, OUI data and hostname heuristics. Never persisted.
type DeviceDetectionResult struct {
	Category        DeviceCategory
	ConfidenceScore int // 0-100
	VendorName      string
	Signal          string // which source decided: protect, fingerprint, oui, hostname
}

func (d DeviceDetectionResult) IsIoT() bool {
	switch d.Category {
	case CategoryIoT, CategoryCamera, CategoryPrinter, CategoryMediaPlayer, CategoryTV:
		return true
	}
	return false
}

func (d DeviceDetectionResult) IsSurveillance() bool {
	return d.Category == CategoryCamera
}

// ClientInfo is a client seen by the controller, wired or wireless.
type ClientInfo struct {
	MAC         string
	Name        string
	Hostname    string
	IP          string
	NetworkID   string
	VlanID      int
	IsWired     bool
	FingerprintDevID int
	LastSeen    time.Time
	Detection   DeviceDetectionResult
}

// DisplayName prefers the user-assigned alias over the hostname.
func (c ClientInfo) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Hostname != "" {
		return c.Hostname
	}
	return c.MAC
}

// SwitchPort is one physical port on a switch.
type SwitchPort struct {
	Index          int
	Name           string
	Enabled        bool
	Up             bool
	PortProfileID  string
	Isolation      bool
	MacRestricted  bool
	LastActivity   time.Time
	ConnectedMACs  []string
	NativeVlanID   int
}

// SwitchInfo is a managed switch and its port table.
type SwitchInfo struct {
	MAC   string
	Name  string
	Model string
	Ports []SwitchPort
}
