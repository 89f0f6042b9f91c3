// Package origin resolves redirect/mirror chains to a single canonical stream
// URL. Many mirrors ultimately redirect to the same physical origin; every
// mirror that shares one is rewritten to whichever channel was first
// discovered to be that origin, deduplicating effective content.
package origin

import (
	"net/url"
	"strings"
)

// Kind classifies one probe's relationship to its own URL.
type Kind int

const (
	// KindOrigin: the channel's own host equals the host of the first URL in
	// the probe's request chain; the channel serves its content directly.
	KindOrigin Kind = iota
	// KindRedirect: the probe was bounced to another host; the channel is a
	// mirror and must never seed new origin entries.
	KindRedirect
)

// Map is the pass-scoped registry from protocol-stripped URL to the canonical
// channel URL that owns that origin. Built while probing a playlist in source
// order, consumed afterwards to rewrite mirror URLs. Not persisted.
type Map struct {
	owners map[string]string
}

// NewMap returns an empty origin registry for one playlist pass.
func NewMap() *Map {
	return &Map{owners: make(map[string]string)}
}

// Len returns the number of registered origin URLs.
func (m *Map) Len() int { return len(m.owners) }

// Classify compares the channel URL's host against the first URL of the
// request chain. An unparsable URL or empty chain classifies as redirect.
func Classify(channelURL string, chain []string) Kind {
	if len(chain) == 0 {
		return KindRedirect
	}
	own, err := url.Parse(channelURL)
	if err != nil {
		return KindRedirect
	}
	first, err := url.Parse(chain[0])
	if err != nil {
		return KindRedirect
	}
	if own.Host != "" && own.Host == first.Host {
		return KindOrigin
	}
	return KindRedirect
}

// Register records every not-yet-claimed URL of an origin-typed probe's chain
// as owned by channelURL. First claim wins; redirect-typed probes register
// nothing.
func (m *Map) Register(channelURL string, chain []string) {
	if Classify(channelURL, chain) != KindOrigin {
		return
	}
	for _, u := range chain {
		key := StripProtocol(u)
		if key == "" {
			continue
		}
		if _, claimed := m.owners[key]; !claimed {
			m.owners[key] = channelURL
		}
	}
}

// Canonical looks up the canonical URL for a channel: its own URL first, then
// each chain entry in order, protocol-stripped. The first registered match
// wins. Returns ("", false) when nothing matches.
func (m *Map) Canonical(channelURL string, chain []string) (string, bool) {
	if canon, ok := m.owners[StripProtocol(channelURL)]; ok {
		return canon, true
	}
	for _, u := range chain {
		if canon, ok := m.owners[StripProtocol(u)]; ok {
			return canon, true
		}
	}
	return "", false
}

// StripProtocol removes the scheme prefix so http/https mirrors of the same
// location compare equal.
func StripProtocol(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[i+3:]
	}
	return u
}
