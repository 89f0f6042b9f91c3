// Package safeurl screens stream URLs before they reach the prober.
package safeurl

import "net/url"

// IsHTTPOrHTTPS returns true if u is a valid URL with scheme http or https.
// Playlists in the wild carry rtp://, rtmp://, mms:// and file:// entries;
// none of those can be probed over the HTTP client.
func IsHTTPOrHTTPS(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	s := parsed.Scheme
	return s == "http" || s == "https"
}
