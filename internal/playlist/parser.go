package playlist

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const maxLineSize = 1 << 20 // 1 MiB per line

// Parse reads an M3U document. country is the playlist's default country code
// (usually derived from the file name); it is recorded on the returned
// Playlist, not on the channels.
func Parse(r io.Reader, path, country string) (*Playlist, error) {
	pl := &Playlist{Path: path, Country: strings.ToUpper(country)}
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)

	var extinf string
	var userAgent, referrer string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#EXTM3U"):
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			extinf = line
			userAgent, referrer = "", ""
		case strings.HasPrefix(line, "#EXTVLCOPT:http-user-agent="):
			userAgent = strings.TrimPrefix(line, "#EXTVLCOPT:http-user-agent=")
		case strings.HasPrefix(line, "#EXTVLCOPT:http-referrer="):
			referrer = strings.TrimPrefix(line, "#EXTVLCOPT:http-referrer=")
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if extinf == "" {
				continue
			}
			ch := channelFromEXTINF(extinf, line)
			ch.UserAgent = userAgent
			ch.Referrer = referrer
			pl.Channels = append(pl.Channels, ch)
			extinf = ""
		}
	}
	return pl, sc.Err()
}

func channelFromEXTINF(extinf, url string) *Channel {
	ch := &Channel{
		URL:      url,
		TVGID:    attr(extinf, "tvg-id"),
		Language: attr(extinf, "tvg-language"),
		Logo:     attr(extinf, "tvg-logo"),
		Category: attr(extinf, "group-title"),
		EPGURL:   attr(extinf, "tvg-url"),
	}
	for _, code := range splitList(attr(extinf, "tvg-country")) {
		ch.Countries = append(ch.Countries, Country{Code: strings.ToUpper(code)})
	}
	if canonical, ok := CanonicalCategory(ch.Category); ok {
		ch.Group = canonical
	}

	title := extinf
	if i := strings.LastIndexByte(extinf, ','); i >= 0 {
		title = strings.TrimSpace(extinf[i+1:])
	}
	title, ch.Status = splitStatusMarker(title)
	title, ch.Resolution = splitResolutionMarker(title)
	ch.Name = title
	ch.NSFW = nsfwHeuristic(ch)
	return ch
}

// attr extracts name="value" from an EXTINF line, or "".
func attr(extinf, name string) string {
	prefix := name + `="`
	i := strings.Index(extinf, prefix)
	if i < 0 {
		return ""
	}
	i += len(prefix)
	j := strings.IndexByte(extinf[i:], '"')
	if j < 0 {
		return ""
	}
	return extinf[i : i+j]
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitStatusMarker strips a trailing " [Status]" marker from a title.
func splitStatusMarker(title string) (string, Status) {
	for _, s := range []Status{StatusOffline, StatusNot247, StatusGeoBlocked} {
		marker := " [" + string(s) + "]"
		if strings.HasSuffix(title, marker) {
			return strings.TrimSpace(strings.TrimSuffix(title, marker)), s
		}
	}
	return title, StatusNone
}

// splitResolutionMarker strips a trailing " (NNNp)" marker from a title.
func splitResolutionMarker(title string) (string, Resolution) {
	if !strings.HasSuffix(title, "p)") {
		return title, Resolution{}
	}
	i := strings.LastIndex(title, "(")
	if i < 0 {
		return title, Resolution{}
	}
	h, err := strconv.Atoi(title[i+1 : len(title)-2])
	if err != nil || h <= 0 {
		return title, Resolution{}
	}
	return strings.TrimSpace(title[:i]), Resolution{Height: h}
}

var nsfwKeywords = []string{"xxx", "porn", "18+", "adult"}

// nsfwHeuristic flags content-maturity from the category hint, tvg-id or name.
func nsfwHeuristic(ch *Channel) bool {
	if strings.EqualFold(ch.Category, "xxx") || strings.EqualFold(ch.Group, "xxx") {
		return true
	}
	id := strings.ToLower(ch.TVGID)
	name := strings.ToLower(ch.Name)
	for _, kw := range nsfwKeywords {
		if strings.Contains(id, kw) || strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
