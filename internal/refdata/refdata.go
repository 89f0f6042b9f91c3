// Package refdata loads the remote reference datasets used to enrich channel
// metadata: the community channel feed (logo/languages/category keyed by
// tvg-id), the EPG code feed (tvg-id to guide logo), and the countries and
// languages feeds used for code lookups.
//
// All feeds are read-only within a pass. Load failures are non-fatal by
// contract: callers continue with an empty Set and degraded enrichment.
package refdata

import (
	"strings"
)

// ChannelInfo is one merged record from the reference channel feed.
type ChannelInfo struct {
	ID        string   `json:"id"` // tvg-id, "<name-id>.<country-code>"
	Logo      string   `json:"logo"`
	Languages []string `json:"languages"` // display names
	Category  string   `json:"category"`
}

// EPGCode is one record from the EPG code feed.
type EPGCode struct {
	TVGID string `json:"tvg_id"`
	Logo  string `json:"logo"`
}

// CountryInfo is one record from the countries feed.
type CountryInfo struct {
	Code      string   `json:"code"` // ISO 3166-1 alpha-2
	Name      string   `json:"name"`
	Languages []string `json:"languages"` // language codes, first is the default
}

// Language is one record from the languages feed.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Set is the in-memory reference dataset for one pass.
type Set struct {
	channels  map[string]ChannelInfo // lower-cased tvg-id
	epgLogos  map[string]string      // lower-cased tvg-id → logo
	countries map[string]CountryInfo // upper-cased code
	languages map[string]string      // lower-cased code → display name
}

// Empty returns a Set with no data; every lookup misses.
func Empty() *Set {
	return &Set{
		channels:  make(map[string]ChannelInfo),
		epgLogos:  make(map[string]string),
		countries: make(map[string]CountryInfo),
		languages: make(map[string]string),
	}
}

// SetChannels replaces the channel map, merging duplicate ids: the first
// non-empty logo, language list and category win.
func (s *Set) SetChannels(records []ChannelInfo) {
	s.channels = make(map[string]ChannelInfo, len(records))
	for _, rec := range records {
		key := strings.ToLower(rec.ID)
		if key == "" {
			continue
		}
		cur, ok := s.channels[key]
		if !ok {
			s.channels[key] = rec
			continue
		}
		if cur.Logo == "" {
			cur.Logo = rec.Logo
		}
		if len(cur.Languages) == 0 {
			cur.Languages = rec.Languages
		}
		if cur.Category == "" {
			cur.Category = rec.Category
		}
		s.channels[key] = cur
	}
}

// SetEPGCodes replaces the EPG logo map. Duplicate tvg-ids keep the first
// non-empty logo.
func (s *Set) SetEPGCodes(records []EPGCode) {
	s.epgLogos = make(map[string]string, len(records))
	for _, rec := range records {
		key := strings.ToLower(rec.TVGID)
		if key == "" || rec.Logo == "" {
			continue
		}
		if _, ok := s.epgLogos[key]; !ok {
			s.epgLogos[key] = rec.Logo
		}
	}
}

// SetCountries replaces the country map.
func (s *Set) SetCountries(records []CountryInfo) {
	s.countries = make(map[string]CountryInfo, len(records))
	for _, rec := range records {
		code := strings.ToUpper(rec.Code)
		if code == "" {
			continue
		}
		rec.Code = code
		s.countries[code] = rec
	}
}

// SetLanguages replaces the language-code map.
func (s *Set) SetLanguages(records []Language) {
	s.languages = make(map[string]string, len(records))
	for _, rec := range records {
		code := strings.ToLower(rec.Code)
		if code == "" || rec.Name == "" {
			continue
		}
		s.languages[code] = rec.Name
	}
}

// Channel looks up the merged reference record for a tvg-id.
func (s *Set) Channel(tvgID string) (ChannelInfo, bool) {
	info, ok := s.channels[strings.ToLower(tvgID)]
	return info, ok
}

// EPGLogo looks up the EPG code feed's logo for a tvg-id.
func (s *Set) EPGLogo(tvgID string) string {
	return s.epgLogos[strings.ToLower(tvgID)]
}

// CountryName returns the display name for a country code.
func (s *Set) CountryName(code string) (string, bool) {
	info, ok := s.countries[strings.ToUpper(code)]
	if !ok {
		return "", false
	}
	return info.Name, true
}

// DefaultLanguage returns the display name of a country's first language,
// or "" when the country or its language is unknown.
func (s *Set) DefaultLanguage(countryCode string) string {
	info, ok := s.countries[strings.ToUpper(countryCode)]
	if !ok || len(info.Languages) == 0 {
		return ""
	}
	return s.languages[strings.ToLower(info.Languages[0])]
}
