package playlist

import (
	"strings"
	"testing"
)

const sampleM3U = `#EXTM3U url-tvg="https://guide.example/us.xml"
#EXTINF:-1 tvg-id="cnn.us" tvg-country="US" tvg-language="English" tvg-logo="https://logo.example/cnn.png" group-title="News",CNN (720p) [Not 24/7]
#EXTVLCOPT:http-user-agent=Mozilla/5.0
http://cnn.example/stream.m3u8
#EXTINF:-1 tvg-id="" tvg-country="" tvg-language="" tvg-logo="" group-title="",Some Local TV
http://local.example/live
#EXTINF:-1 tvg-id="redhot.uk" tvg-country="UK" tvg-language="" tvg-logo="" group-title="XXX",Red Hot [Offline]
http://redhot.example/hls.m3u8
`

func TestParse_fields(t *testing.T) {
	pl, err := Parse(strings.NewReader(sampleM3U), "channels/us.m3u", "us")
	if err != nil {
		t.Fatal(err)
	}
	if pl.Country != "US" || pl.Path != "channels/us.m3u" {
		t.Errorf("playlist meta: %+v", pl)
	}
	if len(pl.Channels) != 3 {
		t.Fatalf("channels: %d", len(pl.Channels))
	}

	cnn := pl.Channels[0]
	if cnn.Name != "CNN" || cnn.TVGID != "cnn.us" || cnn.Language != "English" {
		t.Errorf("cnn: %+v", cnn)
	}
	if cnn.Status != StatusNot247 || cnn.Resolution.Height != 720 {
		t.Errorf("cnn markers: status=%q res=%+v", cnn.Status, cnn.Resolution)
	}
	if cnn.Group != "News" || cnn.Category != "News" {
		t.Errorf("cnn category: group=%q hint=%q", cnn.Group, cnn.Category)
	}
	if cnn.UserAgent != "Mozilla/5.0" {
		t.Errorf("cnn user-agent: %q", cnn.UserAgent)
	}
	if len(cnn.Countries) != 1 || cnn.Countries[0].Code != "US" {
		t.Errorf("cnn countries: %+v", cnn.Countries)
	}
	if cnn.EPGURL != "" {
		t.Errorf("header url-tvg must not leak into entries: %q", cnn.EPGURL)
	}

	local := pl.Channels[1]
	if local.Name != "Some Local TV" || local.TVGID != "" || local.Status != StatusNone {
		t.Errorf("local: %+v", local)
	}

	redhot := pl.Channels[2]
	if !redhot.NSFW {
		t.Error("XXX group must flag NSFW")
	}
	if redhot.Status != StatusOffline {
		t.Errorf("redhot status: %q", redhot.Status)
	}
	if redhot.Name != "Red Hot" {
		t.Errorf("redhot name: %q", redhot.Name)
	}
}

func TestParse_statusAndResolutionMarkers(t *testing.T) {
	tests := []struct {
		title  string
		name   string
		status Status
		height int
	}{
		{"CNN", "CNN", StatusNone, 0},
		{"CNN (1080p)", "CNN", StatusNone, 1080},
		{"CNN [Offline]", "CNN", StatusOffline, 0},
		{"CNN (480p) [Geo-blocked]", "CNN", StatusGeoBlocked, 480},
		{"Club (2019)", "Club (2019)", StatusNone, 0}, // year, not a resolution
	}
	for _, tt := range tests {
		title, status := splitStatusMarker(tt.title)
		title, res := splitResolutionMarker(title)
		if title != tt.name || status != tt.status || res.Height != tt.height {
			t.Errorf("%q: got name=%q status=%q height=%d", tt.title, title, status, res.Height)
		}
	}
}

func TestParse_tvgIDParts(t *testing.T) {
	ch := &Channel{TVGID: "FranceInfo.fr"}
	if ch.NameID() != "FranceInfo" || ch.CountryCode() != "FR" {
		t.Errorf("got %q / %q", ch.NameID(), ch.CountryCode())
	}
	empty := &Channel{}
	if empty.NameID() != "" || empty.CountryCode() != "" {
		t.Errorf("empty tvg-id must yield empty parts")
	}
}

func TestMarshal_roundTrip(t *testing.T) {
	pl, err := Parse(strings.NewReader(sampleM3U), "us.m3u", "US")
	if err != nil {
		t.Fatal(err)
	}
	// Round-tripping without the header guide URL: entries carry no EPGURL here.
	out := string(Marshal(pl.Channels))
	pl2, err := Parse(strings.NewReader(out), "us.m3u", "US")
	if err != nil {
		t.Fatal(err)
	}
	if len(pl2.Channels) != len(pl.Channels) {
		t.Fatalf("round trip lost channels: %d != %d", len(pl2.Channels), len(pl.Channels))
	}
	for i := range pl.Channels {
		a, b := pl.Channels[i], pl2.Channels[i]
		if a.Name != b.Name || a.URL != b.URL || a.TVGID != b.TVGID ||
			a.Status != b.Status || a.Resolution.Height != b.Resolution.Height ||
			a.UserAgent != b.UserAgent {
			t.Errorf("channel %d changed: %+v != %+v", i, a, b)
		}
	}
}

func TestMarshal_guideURLSurvivesRoundTrip(t *testing.T) {
	src := `#EXTM3U
#EXTINF:-1 tvg-id="cnn.us" tvg-url="https://example.com/guide.xml" group-title="News",CNN
http://host/stream.m3u8
`
	pl, err := Parse(strings.NewReader(src), "us.m3u", "US")
	if err != nil {
		t.Fatal(err)
	}
	if pl.Channels[0].EPGURL != "https://example.com/guide.xml" {
		t.Fatalf("EPGURL not parsed: %+v", pl.Channels[0])
	}

	first := string(Marshal(pl.Channels))
	pl2, err := Parse(strings.NewReader(first), "us.m3u", "US")
	if err != nil {
		t.Fatal(err)
	}
	if pl2.Channels[0].EPGURL != "https://example.com/guide.xml" {
		t.Errorf("EPGURL lost after one round-trip: %+v", pl2.Channels[0])
	}

	// A second write must keep the aggregated header, not degrade to a bare
	// #EXTM3U.
	second := string(Marshal(pl2.Channels))
	if second != first {
		t.Errorf("second write differs:\n%s\n---\n%s", first, second)
	}
	if !strings.HasPrefix(second, `#EXTM3U url-tvg="https://example.com/guide.xml"`) {
		t.Errorf("header lost the guide URL: %q", strings.SplitN(second, "\n", 2)[0])
	}
}

func TestMarshal_headerAggregatesGuideURLs(t *testing.T) {
	channels := []*Channel{
		{Name: "B", URL: "http://b", EPGURL: "https://guide.example/b.xml"},
		{Name: "A", URL: "http://a", EPGURL: "https://guide.example/a.xml"},
		{Name: "C", URL: "http://c", EPGURL: "https://guide.example/b.xml"}, // dup
		{Name: "D", URL: "http://d"},                                       // no guide
	}
	out := string(Marshal(channels))
	want := `#EXTM3U url-tvg="https://guide.example/a.xml,https://guide.example/b.xml"`
	if !strings.HasPrefix(out, want+"\n") {
		t.Errorf("header = %q, want prefix %q", strings.SplitN(out, "\n", 2)[0], want)
	}
}

func TestCanonicalCategory(t *testing.T) {
	if c, ok := CanonicalCategory("news"); !ok || c != "News" {
		t.Errorf("news: %q %v", c, ok)
	}
	if _, ok := CanonicalCategory("Telenovelas"); ok {
		t.Error("unknown label must not validate")
	}
}
