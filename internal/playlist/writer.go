package playlist

import (
	"fmt"
	"sort"
	"strings"
)

// Marshal renders channels back to M3U text. The header aggregates every
// distinct non-empty guide URL referenced by the entries, lexicographically
// sorted and comma-joined, so downstream players get one url-tvg declaration.
// Each entry also carries its own guide URL as tvg-url so the association
// survives a write/read round-trip.
func Marshal(channels []*Channel) []byte {
	var b strings.Builder
	b.WriteString(header(channels))
	b.WriteByte('\n')
	for _, ch := range channels {
		writeEntry(&b, ch)
	}
	return []byte(b.String())
}

func header(channels []*Channel) string {
	seen := make(map[string]bool)
	var urls []string
	for _, ch := range channels {
		if ch.EPGURL != "" && !seen[ch.EPGURL] {
			seen[ch.EPGURL] = true
			urls = append(urls, ch.EPGURL)
		}
	}
	if len(urls) == 0 {
		return "#EXTM3U"
	}
	sort.Strings(urls)
	return fmt.Sprintf(`#EXTM3U url-tvg="%s"`, strings.Join(urls, ","))
}

func writeEntry(b *strings.Builder, ch *Channel) {
	var codes []string
	for _, c := range ch.Countries {
		codes = append(codes, c.Code)
	}
	fmt.Fprintf(b, `#EXTINF:-1 tvg-id="%s" tvg-country="%s" tvg-language="%s" tvg-logo="%s"`,
		ch.TVGID, strings.Join(codes, ";"), ch.Language, ch.Logo)
	if ch.EPGURL != "" {
		fmt.Fprintf(b, ` tvg-url="%s"`, ch.EPGURL)
	}
	fmt.Fprintf(b, ` group-title="%s",%s`, ch.Group, Title(ch))
	b.WriteByte('\n')
	if ch.UserAgent != "" {
		fmt.Fprintf(b, "#EXTVLCOPT:http-user-agent=%s\n", ch.UserAgent)
	}
	if ch.Referrer != "" {
		fmt.Fprintf(b, "#EXTVLCOPT:http-referrer=%s\n", ch.Referrer)
	}
	b.WriteString(ch.URL)
	b.WriteByte('\n')
}

// Title renders the display name with its resolution and status markers.
func Title(ch *Channel) string {
	title := ch.Name
	if ch.Resolution.Height > 0 {
		title += fmt.Sprintf(" (%dp)", ch.Resolution.Height)
	}
	if ch.Status != StatusNone {
		title += fmt.Sprintf(" [%s]", ch.Status)
	}
	return title
}
