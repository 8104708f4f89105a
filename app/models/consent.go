package models

import "time"

const ConsentVersion = "1.0"

// CookiePreferences mirrors the consent banner's four categories. Necessary
// cookies cannot be opted out of.
type CookiePreferences struct {
	Necessary  bool `json:"necessary"`
	Analytics  bool `json:"analytics"`
	Marketing  bool `json:"marketing"`
	Functional bool `json:"functional"`
}

type CookieConsent struct {
	Preferences CookiePreferences `json:"preferences"`
	Timestamp   time.Time         `json:"timestamp"`
	Version     string            `json:"version"`
}

func NewCookieConsent(prefs CookiePreferences) CookieConsent {
	prefs.Necessary = true
	return CookieConsent{
		Preferences: prefs,
		Timestamp:   time.Now(),
		Version:     ConsentVersion,
	}
}

func (c CookieConsent) Allows(category string) bool {
	switch category {
	case "necessary":
		return true
	case "analytics":
		return c.Preferences.Analytics
	case "marketing":
		return c.Preferences.Marketing
	case "functional":
		return c.Preferences.Functional
	default:
		return false
	}
}
