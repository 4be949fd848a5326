package types

import "fmt"

// SettingRow is one server setting as reported by pg_settings.
type SettingRow struct {
	Name  string
	Value string
}

// LicenseInfo is either fully populated or the zero value, which means no
// license is installed.
type LicenseInfo struct {
	Type     string
	Start    string
	Expiry   string
	Customer string
}

func (l LicenseInfo) IsZero() bool {
	return l == LicenseInfo{}
}

func (l LicenseInfo) String() string {
	if l.IsZero() {
		return "{}"
	}
	return fmt.Sprintf("{type: %s, start: %s, expiry: %s, customer: %s}",
		l.Type, l.Start, l.Expiry, l.Customer)
}

type LoggingInfo struct {
	CollectLogs bool
	LogDir      string
	DataDir     string
}
