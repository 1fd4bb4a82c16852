// Package useragent extracts operating system and browser details from
// User-Agent headers, backed by github.com/mssola/useragent.
//
//	u, err := useragent.Parse(r.Header.Get("User-Agent"))
//	if err != nil {
//		// empty header
//	}
//	u.OS()          // "Windows"
//	u.BrowserName() // "Chrome"
//
// DeviceName builds a short "<os>_<version>-<browser>_<version>" label,
// suitable as a default display name for a connected device.
package useragent
