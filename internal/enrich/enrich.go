// Package enrich fills empty channel metadata from the reference datasets
// under a fixed per-field precedence. It never overwrites a non-empty value.
package enrich

import (
	"strings"
	"unicode"

	"github.com/iptvcheck/iptv-check/internal/playlist"
	"github.com/iptvcheck/iptv-check/internal/refdata"
)

// Apply enriches one channel in place. defaultCountry is the playlist's
// country hint used when deriving a tvg-id. Precedence is strictly
// first-match-wins; later sources never override an earlier non-empty result.
func Apply(ch *playlist.Channel, defaultCountry string, ref *refdata.Set) {
	name := stripQuotes(ch.Name)

	// tvg-id: derive from the display name plus the playlist country. When no
	// id can be derived the field is set to the empty string explicitly.
	if ch.TVGID == "" {
		if id := nameID(name); id != "" && defaultCountry != "" {
			ch.TVGID = id + "." + strings.ToLower(defaultCountry)
		} else {
			ch.TVGID = ""
		}
	}

	// Country association: parsed once from the tvg-id suffix; an unknown
	// code leaves the associations empty.
	if len(ch.Countries) == 0 && ch.TVGID != "" {
		code := ch.CountryCode()
		if countryName, ok := ref.CountryName(code); ok {
			ch.Countries = []playlist.Country{{Code: code, Name: countryName}}
		}
	}

	info, hasInfo := ref.Channel(ch.TVGID)

	// Logo: primary reference source first, EPG code feed second.
	if ch.Logo == "" {
		if hasInfo && info.Logo != "" {
			ch.Logo = info.Logo
		} else if logo := ref.EPGLogo(ch.TVGID); logo != "" {
			ch.Logo = logo
		}
	}

	// Language: reference language list first, country default second.
	if ch.Language == "" {
		if hasInfo && len(info.Languages) > 0 {
			ch.Language = strings.Join(info.Languages, ";")
		} else if len(ch.Countries) > 0 {
			ch.Language = ref.DefaultLanguage(ch.Countries[0].Code)
		}
	}

	// Group label: own category hint first, reference category second.
	if ch.Group == "" {
		label := ch.Category
		if label == "" && hasInfo {
			label = info.Category
		}
		if canonical, ok := playlist.CanonicalCategory(label); ok {
			ch.Group = canonical
		} else {
			ch.Group = label
		}
	}
}

func stripQuotes(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '`', '“', '”', '‘', '’':
			return -1
		}
		return r
	}, s)
}

// nameID collapses a display name to the identifier part of a tvg-id:
// letters and digits survive, words join without separators.
func nameID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
