// Package catalog is the in-memory index engine over the verified channel
// set. A Collection is an immutable ordered view; every operation returns a
// new view and never mutates the underlying channels, so independent output
// playlists can be generated from one catalog in any order (or in parallel).
package catalog

import (
	"strings"

	"github.com/iptvcheck/iptv-check/internal/playlist"
)

// Collection is an ordered, read-only view over channels.
type Collection struct {
	channels []*playlist.Channel
}

// New builds a view over channels. The input slice is copied.
func New(channels []*playlist.Channel) Collection {
	cp := make([]*playlist.Channel, len(channels))
	copy(cp, channels)
	return Collection{channels: cp}
}

// Channels materializes the view as an ordered slice (a copy).
func (c Collection) Channels() []*playlist.Channel {
	cp := make([]*playlist.Channel, len(c.channels))
	copy(cp, c.channels)
	return cp
}

// Count returns the size of the view.
func (c Collection) Count() int { return len(c.channels) }

// Predicate selects channels for Filter.
type Predicate func(*playlist.Channel) bool

// Filter restricts the view to channels matching pred, preserving order.
func (c Collection) Filter(pred Predicate) Collection {
	out := make([]*playlist.Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		if pred(ch) {
			out = append(out, ch)
		}
	}
	return Collection{channels: out}
}

// HasCountry selects channels associated with the given country code.
func HasCountry(code string) Predicate {
	return func(ch *playlist.Channel) bool {
		for _, country := range ch.Countries {
			if strings.EqualFold(country.Code, code) {
				return true
			}
		}
		return false
	}
}

// HasLanguage selects channels whose display language list contains name.
func HasLanguage(name string) Predicate {
	return func(ch *playlist.Channel) bool {
		for _, lang := range strings.Split(ch.Language, ";") {
			if strings.EqualFold(strings.TrimSpace(lang), name) {
				return true
			}
		}
		return false
	}
}

// InCategory selects channels whose group label matches.
func InCategory(label string) Predicate {
	return func(ch *playlist.Channel) bool {
		return strings.EqualFold(ch.Group, label)
	}
}

// IsOnline selects channels not marked offline.
func IsOnline(ch *playlist.Channel) bool { return ch.Online() }

// IsNSFW selects channels with the content-maturity flag set.
func IsNSFW(ch *playlist.Channel) bool { return ch.NSFW }

// WithoutOffline drops channels whose stored status is Offline.
func (c Collection) WithoutOffline() Collection {
	return c.Filter(func(ch *playlist.Channel) bool { return ch.Status != playlist.StatusOffline })
}

// WithoutNSFW drops channels with the content-maturity flag set.
func (c Collection) WithoutNSFW() Collection {
	return c.Filter(func(ch *playlist.Channel) bool { return !ch.NSFW })
}

// Dedup collapses channels sharing a canonicalized URL, keeping the first
// occurrence under the current order. Sort before deduplicating so the kept
// representative is the best one (e.g. descending resolution keeps the
// highest-resolution copy).
func (c Collection) Dedup() Collection {
	seen := make(map[string]bool, len(c.channels))
	out := make([]*playlist.Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		if seen[ch.URL] {
			continue
		}
		seen[ch.URL] = true
		out = append(out, ch)
	}
	return Collection{channels: out}
}
