// Package playlist holds the channel data model and the M3U reader/writer.
//
// A playlist file is the line-oriented header-plus-entries format:
//
//	#EXTM3U url-tvg="https://example.com/guide.xml"
//	#EXTINF:-1 tvg-id="cnn.us" tvg-country="US" tvg-language="English" tvg-logo="https://.../cnn.png" group-title="News",CNN (720p) [Not 24/7]
//	#EXTVLCOPT:http-user-agent=Mozilla/5.0
//	http://host/stream.m3u8
//
// Status and resolution ride on the display name as trailing markers
// (" (720p)", " [Offline]") so they survive write/read round-trips.
package playlist

import "strings"

// Status is a channel health marker persisted in the entry title.
type Status string

const (
	StatusNone       Status = ""
	StatusOffline    Status = "Offline"
	StatusNot247     Status = "Not 24/7"
	StatusGeoBlocked Status = "Geo-blocked"
)

// Sentinel reports whether the status is manually curated and must never be
// replaced by a probe outcome. Channels bearing one skip probing entirely.
func (s Status) Sentinel() bool {
	return s == StatusNot247 || s == StatusGeoBlocked
}

// Country is one country association (ISO 3166-1 alpha-2 code + display name).
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Resolution is the measured video resolution. Zero means unknown.
type Resolution struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Channel is one playlist entry.
type Channel struct {
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	TVGID      string     `json:"tvg_id,omitempty"`   // "<name-id>.<country-code>", may be empty
	Language   string     `json:"language,omitempty"` // display language(s), ";"-joined
	Countries  []Country  `json:"countries,omitempty"`
	Logo       string     `json:"logo,omitempty"`
	Group      string     `json:"group,omitempty"`    // validated category label used for partitioning
	Category   string     `json:"category,omitempty"` // free-text category hint as found in the source
	Status     Status     `json:"status,omitempty"`
	Resolution Resolution `json:"resolution,omitempty"`
	NSFW       bool       `json:"nsfw,omitempty"`
	EPGURL     string     `json:"epg_url,omitempty"` // guide URL aggregated into the header on write
	UserAgent  string     `json:"user_agent,omitempty"`
	Referrer   string     `json:"referrer,omitempty"`
}

// CountryCode returns the country suffix of the tvg-id, upper-cased, or "".
func (c *Channel) CountryCode() string {
	id := c.TVGID
	dot := strings.LastIndexByte(id, '.')
	if dot < 0 || dot == len(id)-1 {
		return ""
	}
	return strings.ToUpper(id[dot+1:])
}

// NameID returns the part of the tvg-id before the country suffix, or "".
func (c *Channel) NameID() string {
	id := c.TVGID
	dot := strings.LastIndexByte(id, '.')
	if dot <= 0 {
		return ""
	}
	return id[:dot]
}

// Online reports whether the stored status does not mark the channel dead.
func (c *Channel) Online() bool {
	return c.Status != StatusOffline
}

// Playlist is an ordered sequence of channels loaded from one source file.
// Country is the default country code applied when deriving tvg-ids for
// entries that lack one.
type Playlist struct {
	Path     string
	Country  string
	Channels []*Channel
}
