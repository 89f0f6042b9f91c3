package catalog

import (
	"sort"
	"strings"

	"github.com/iptvcheck/iptv-check/internal/playlist"
)

// Key compares two channels for one sort dimension: negative when a orders
// before b, zero when equal. Missing/zero values compare lowest.
type Key func(a, b *playlist.Channel) int

// ByName orders by display name, case-insensitively.
func ByName(a, b *playlist.Channel) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// ByStatus orders by the status label; the empty (healthy) status is lowest.
func ByStatus(a, b *playlist.Channel) int {
	return strings.Compare(string(a.Status), string(b.Status))
}

// ByHeight orders by measured resolution height; unknown (zero) is lowest.
func ByHeight(a, b *playlist.Channel) int {
	return a.Resolution.Height - b.Resolution.Height
}

// ByURL orders by the canonicalized stream URL.
func ByURL(a, b *playlist.Channel) int {
	return strings.Compare(a.URL, b.URL)
}

// ByGroup orders by the category label; used as the leading key of the
// per-category index.
func ByGroup(a, b *playlist.Channel) int {
	return strings.Compare(strings.ToLower(a.Group), strings.ToLower(b.Group))
}

// Desc inverts a key's direction.
func Desc(key Key) Key {
	return func(a, b *playlist.Channel) int { return -key(a, b) }
}

// SortBy returns a view ordered by the given keys, evaluated left to right as
// tie-breakers. The sort is stable, so equal channels keep their input order.
func (c Collection) SortBy(keys ...Key) Collection {
	out := c.Channels()
	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range keys {
			if cmp := key(out[i], out[j]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return Collection{channels: out}
}
