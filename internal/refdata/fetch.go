package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/iptvcheck/iptv-check/internal/httpclient"
)

const (
	DefaultChannelsURL  = "https://iptv-org.github.io/api/channels.json"
	DefaultEPGCodesURL  = "https://iptv-org.github.io/api/guides.json"
	DefaultCountriesURL = "https://iptv-org.github.io/api/countries.json"
	DefaultLanguagesURL = "https://iptv-org.github.io/api/languages.json"

	fetchTimeout = 60 * time.Second
	userAgent    = "iptv-check/1.0 (+refdata)"
)

// FeedURLs selects where each reference dataset is fetched from.
// Empty fields fall back to the defaults.
type FeedURLs struct {
	Channels  string
	EPGCodes  string
	Countries string
	Languages string
}

func (u FeedURLs) withDefaults() FeedURLs {
	if u.Channels == "" {
		u.Channels = DefaultChannelsURL
	}
	if u.EPGCodes == "" {
		u.EPGCodes = DefaultEPGCodesURL
	}
	if u.Countries == "" {
		u.Countries = DefaultCountriesURL
	}
	if u.Languages == "" {
		u.Languages = DefaultLanguagesURL
	}
	return u
}

// Load fetches all reference feeds concurrently. Each feed failure is logged
// and leaves that part of the Set empty; the returned Set is always usable.
func Load(ctx context.Context, urls FeedURLs) *Set {
	urls = urls.withDefaults()
	s := Empty()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		var channels []ChannelInfo
		if err := fetchJSON(ctx, urls.Channels, &channels); err != nil {
			log.Printf("Refdata: channel feed unavailable, enrichment degraded: %v", err)
			return
		}
		s.SetChannels(channels)
	}()
	go func() {
		defer wg.Done()
		var codes []EPGCode
		if err := fetchJSON(ctx, urls.EPGCodes, &codes); err != nil {
			log.Printf("Refdata: EPG code feed unavailable: %v", err)
			return
		}
		s.SetEPGCodes(codes)
	}()
	go func() {
		defer wg.Done()
		var countries []CountryInfo
		if err := fetchJSON(ctx, urls.Countries, &countries); err != nil {
			log.Printf("Refdata: countries feed unavailable: %v", err)
			return
		}
		s.SetCountries(countries)
	}()
	go func() {
		defer wg.Done()
		var languages []Language
		if err := fetchJSON(ctx, urls.Languages, &languages); err != nil {
			log.Printf("Refdata: languages feed unavailable: %v", err)
			return
		}
		s.SetLanguages(languages)
	}()
	wg.Wait()

	return s
}

// fetchJSON downloads and decodes one feed. The shared per-host limiter keeps
// the concurrent fetches polite toward a single host, and transient 429/5xx
// responses are retried once. Brotli is advertised and decoded explicitly since
// the feeds are large and the hosts support it.
func fetchJSON(ctx context.Context, feedURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Encoding", "br, gzip")

	release := httpclient.GlobalHostSem.Acquire(feedURL)
	resp, err := httpclient.DoWithRetry(ctx, httpclient.Default(), req, httpclient.DefaultRetryPolicy)
	release()
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: HTTP %d", feedURL, resp.StatusCode)
	}
	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		body = brotli.NewReader(resp.Body)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: parse: %w", feedURL, err)
	}
	return nil
}
