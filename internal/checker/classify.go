// Package checker runs the verification pipeline: probe, classify, enrich,
// canonicalize, one channel at a time in source order.
package checker

import (
	"regexp"
	"strings"

	"github.com/iptvcheck/iptv-check/internal/playlist"
	"github.com/iptvcheck/iptv-check/internal/probe"
)

// Health is the classified outcome of one probe.
type Health int

const (
	Online Health = iota
	Offline
	Timeout
	Error40x // HTTP status outside {400, 401, 403, 404}
	Error403
)

func (h Health) String() string {
	switch h {
	case Online:
		return "online"
	case Timeout:
		return "timeout"
	case Error40x:
		return "error_40x"
	case Error403:
		return "error_403"
	default:
		return "offline"
	}
}

// expectedStatuses are the HTTP statuses that mean plain "offline" rather
// than a distinguishable server-side error.
var expectedStatuses = map[int]bool{400: true, 401: true, 403: true, 404: true}

// Classify maps a probe outcome to exactly one health state. A transport
// error (probeErr != nil) classifies as offline; the caller may surface it
// separately in diagnostics.
func Classify(res probe.Result, probeErr error) Health {
	if probeErr != nil {
		return Offline
	}
	if res.OK {
		return Online
	}
	f := res.Failure
	if f == nil {
		return Offline
	}
	switch f.Kind {
	case probe.KindTimeout:
		return Timeout
	case probe.KindHTTPStatus:
		if f.HTTPStatus == 403 {
			return Error403
		}
		if !expectedStatuses[f.HTTPStatus] {
			return Error40x
		}
		return Offline
	default:
		return classifyText(f.Message)
	}
}

var statusCodeRe = regexp.MustCompile(`\b(\d{3})\b`)

// classifyText classifies a free-text failure reason from a foreign prober.
// The matching order mirrors Classify so both paths distinguish the same set
// of outcomes; anything unrecognized defaults to offline.
func classifyText(reason string) Health {
	lower := strings.ToLower(reason)
	if strings.Contains(lower, "timed out") || strings.Contains(lower, "timeout") {
		return Timeout
	}
	if strings.Contains(reason, "403") {
		return Error403
	}
	if m := statusCodeRe.FindStringSubmatch(reason); m != nil {
		switch m[1] {
		case "400", "401", "404":
			return Offline
		default:
			return Error40x
		}
	}
	return Offline
}

// UpdateStatus applies a classification to the channel's stored status.
// Online clears the status, except a previously offline channel becomes
// "Not 24/7" (intermittently available, not freshly verified). Offline and
// 403 outcomes mark the channel offline; the rest leave the status alone.
func UpdateStatus(ch *playlist.Channel, h Health) {
	switch h {
	case Online:
		if ch.Status == playlist.StatusOffline {
			ch.Status = playlist.StatusNot247
		} else {
			ch.Status = playlist.StatusNone
		}
	case Offline, Error403:
		ch.Status = playlist.StatusOffline
	}
}

// UpdateResolution records the first measured resolution; it is never
// overwritten or downgraded afterwards.
func UpdateResolution(ch *playlist.Channel, res probe.Result) {
	if ch.Resolution.Height > 0 {
		return
	}
	if w, h := res.BestResolution(); h > 0 {
		ch.Resolution = playlist.Resolution{Width: w, Height: h}
	}
}
