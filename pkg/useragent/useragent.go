package useragent

import (
	"errors"
	"strings"

	ua "github.com/mssola/useragent"
)

// ErrEmptyUserAgent is returned for an empty or blank User-Agent header.
var ErrEmptyUserAgent = errors.New("useragent: empty user agent")

// UserAgent holds the parts of a User-Agent header this package exposes.
type UserAgent struct {
	raw            string
	os             string
	osVersion      string
	browser        string
	browserVersion string
	bot            bool
	mobile         bool
}

// Parse parses a User-Agent header.
func Parse(s string) (UserAgent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UserAgent{}, ErrEmptyUserAgent
	}

	p := ua.New(s)
	osInfo := p.OSInfo()
	browser, browserVersion := p.Browser()

	return UserAgent{
		raw:            s,
		os:             osInfo.Name,
		osVersion:      osInfo.Version,
		browser:        browser,
		browserVersion: browserVersion,
		bot:            p.Bot(),
		mobile:         p.Mobile(),
	}, nil
}

func (u UserAgent) String() string         { return u.raw }
func (u UserAgent) OS() string             { return u.os }
func (u UserAgent) OSVersion() string      { return u.osVersion }
func (u UserAgent) BrowserName() string    { return u.browser }
func (u UserAgent) BrowserVersion() string { return u.browserVersion }
func (u UserAgent) IsBot() bool            { return u.bot }
func (u UserAgent) IsMobile() bool         { return u.mobile }

// DeviceName builds a compact label such as "Windows_10-Chrome_120.0".
// It returns an empty string when the operating system is unknown, so
// callers can fall back to another identifier.
func (u UserAgent) DeviceName() string {
	if u.os == "" {
		return ""
	}
	return u.os + "_" + u.osVersion + "-" + u.browser + "_" + u.browserVersion
}

// DeviceName parses s and returns its device label, or "" when s is empty
// or names no operating system.
func DeviceName(s string) string {
	u, err := Parse(s)
	if err != nil {
		return ""
	}
	return u.DeviceName()
}
