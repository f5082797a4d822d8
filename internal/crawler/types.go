package crawler

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// BrowserProfile names the browser whose TLS fingerprint a fetch imitates.
type BrowserProfile string

// Supported browser profiles.
const (
	ProfileChrome116  BrowserProfile = "chrome116"
	ProfileChrome110  BrowserProfile = "chrome110"
	ProfileFirefox109 BrowserProfile = "firefox109"
)

const (
	// DefaultBrowserProfile is used when FetchOptions leaves the profile empty.
	DefaultBrowserProfile = ProfileChrome116
	// DefaultTimeoutMs is used when FetchOptions leaves the timeout unset.
	DefaultTimeoutMs = 5000
)

// BrowserProfiles lists every supported profile.
func BrowserProfiles() []BrowserProfile {
	return []BrowserProfile{ProfileChrome116, ProfileChrome110, ProfileFirefox109}
}

// ParseBrowserProfile validates a profile name, ignoring case and surrounding space.
func ParseBrowserProfile(raw string) (BrowserProfile, error) {
	p := BrowserProfile(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(BrowserProfiles(), p) {
		return p, nil
	}
	return "", fmt.Errorf("unsupported browser profile %q", raw)
}

// FetchOptions controls a single fetch.
type FetchOptions struct {
	BrowserProfile BrowserProfile
	TimeoutMs      int
	Headers        map[string]string
	UserAgent      string
}

// DefaultFetchOptions returns the documented policy defaults.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{BrowserProfile: DefaultBrowserProfile, TimeoutMs: DefaultTimeoutMs}
}

// WithDefaults fills unset fields with the policy defaults.
func (o FetchOptions) WithDefaults() FetchOptions {
	if o.BrowserProfile == "" {
		o.BrowserProfile = DefaultBrowserProfile
	}
	if o.TimeoutMs <= 0 {
		o.TimeoutMs = DefaultTimeoutMs
	}
	return o
}

// Timeout returns TimeoutMs as a duration.
func (o FetchOptions) Timeout() time.Duration {
	return time.Duration(o.TimeoutMs) * time.Millisecond
}

// HeaderKeys returns the header names sorted, so rendered commands are stable.
func (o FetchOptions) HeaderKeys() []string {
	return slices.Sorted(maps.Keys(o.Headers))
}
