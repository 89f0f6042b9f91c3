package probe

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iptvcheck/iptv-check/internal/httpclient"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "iptv-check/1.0"
	maxRedirects     = 10
	maxPlaylistScan  = 256 * 1024
)

// HTTPProber probes HTTP(S) stream endpoints. For HLS URLs it inspects the
// playlist body and extracts variant resolutions; for anything else a 200
// response is taken as proof of life.
type HTTPProber struct {
	Timeout time.Duration
}

// NewHTTPProber returns a prober with the given per-request timeout
// (defaulted when zero).
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPProber{Timeout: timeout}
}

// Probe implements Prober. Timeouts and HTTP error statuses come back as
// structured failures; everything else transport-shaped is returned as an
// error for the caller to record.
func (p *HTTPProber) Probe(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	chain := []string{req.URL}
	client := &http.Client{
		Transport: httpclient.Default().Transport,
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			chain = append(chain, r.URL.String())
			return nil
		},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return Result{}, err
	}
	ua := req.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)
	if req.Referrer != "" {
		httpReq.Header.Set("Referer", req.Referrer)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return Result{Failure: &Failure{Kind: KindTimeout, Message: "request timed out"}}, nil
		}
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Failure: &Failure{
			Kind:       KindHTTPStatus,
			HTTPStatus: resp.StatusCode,
			Message:    "server responded with " + strconv.Itoa(resp.StatusCode),
		}}, nil
	}

	if isHLS(req.URL, resp.Header.Get("Content-Type")) {
		streams, ok := scanHLS(resp.Body)
		if !ok {
			return Result{Failure: &Failure{Kind: KindUnknown, Message: "empty playlist"}}, nil
		}
		return Result{OK: true, Streams: streams, RequestChain: chain}, nil
	}
	return Result{OK: true, Streams: []Stream{{CodecType: "video"}}, RequestChain: chain}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

func isHLS(streamURL, contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "mpegurl") || strings.Contains(ct, "m3u8") ||
		strings.HasSuffix(strings.ToLower(streamURL), ".m3u8")
}

var resolutionRe = regexp.MustCompile(`RESOLUTION=(\d+)x(\d+)`)

// scanHLS reads the start of an HLS playlist. Master playlists yield one video
// stream per #EXT-X-STREAM-INF variant (with resolution when declared); media
// playlists yield a single video stream of unknown resolution.
func scanHLS(r io.Reader) ([]Stream, bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxPlaylistScan)
	var streams []Stream
	sawContent := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#EXT-X-STREAM-INF:") {
			s := Stream{CodecType: "video"}
			if m := resolutionRe.FindStringSubmatch(line); m != nil {
				s.Width, _ = strconv.Atoi(m[1])
				s.Height, _ = strconv.Atoi(m[2])
			}
			streams = append(streams, s)
			continue
		}
		if line == "#EXTM3U" || strings.HasPrefix(line, "#EXTINF") || !strings.HasPrefix(line, "#") {
			sawContent = true
		}
	}
	if len(streams) > 0 {
		return streams, true
	}
	if sawContent {
		return []Stream{{CodecType: "video"}}, true
	}
	return nil, false
}
