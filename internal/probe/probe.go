// Package probe defines the stream prober boundary: a structured probe result
// with a typed failure reason, the list of media streams found, and the chain
// of request URLs the probe traversed (redirects included).
package probe

import (
	"context"
	"fmt"
)

// FailureKind is the structured reason a probe did not succeed. Keeping the
// reason typed here (instead of matching free text downstream) pins the set
// of distinguishable outcomes at the prober boundary.
type FailureKind int

const (
	KindUnknown    FailureKind = iota
	KindTimeout                // request exceeded the configured timeout
	KindHTTPStatus             // server responded with a non-200 status
	KindTransport              // DNS, connect, reset and friends
)

func (k FailureKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure describes an unsuccessful probe.
type Failure struct {
	Kind       FailureKind `json:"kind"`
	HTTPStatus int         `json:"http_status,omitempty"` // set when Kind is KindHTTPStatus
	Message    string      `json:"message,omitempty"`     // prober's free-text reason
}

func (f *Failure) Error() string {
	if f.Kind == KindHTTPStatus {
		return fmt.Sprintf("server responded with %d", f.HTTPStatus)
	}
	return f.Message
}

// Stream is one media stream found in the probed content.
type Stream struct {
	CodecType string `json:"codec_type"` // "video" or "audio"
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Result is the outcome of probing one stream URL.
// RequestChain[0] is the original request URL; subsequent entries are the
// redirect targets in traversal order. Empty on failure.
type Result struct {
	OK           bool     `json:"ok"`
	Failure      *Failure `json:"failure,omitempty"`
	Streams      []Stream `json:"streams,omitempty"`
	RequestChain []string `json:"request_chain,omitempty"`
}

// BestResolution returns the largest video resolution among the result's
// streams, or zeroes when none carries one.
func (r Result) BestResolution() (width, height int) {
	for _, s := range r.Streams {
		if s.Height > height {
			width, height = s.Width, s.Height
		}
	}
	return width, height
}

// Request identifies what to probe and how to present the request.
type Request struct {
	URL       string
	UserAgent string
	Referrer  string
}

// Prober checks a stream endpoint. A returned error means the probe could not
// run at all (transport-level); a structured failure comes back inside Result.
type Prober interface {
	Probe(ctx context.Context, req Request) (Result, error)
}
