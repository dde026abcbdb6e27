package domain

import "fmt"

// SiteProfile is one controller connection profile from the site registry.
type SiteProfile struct {
	Name      string
	Host      string
	APIKey    string
	VerifyTLS bool
}

func (s SiteProfile) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Host)
}
