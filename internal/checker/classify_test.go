package checker

import (
	"errors"
	"testing"

	"github.com/iptvcheck/iptv-check/internal/playlist"
	"github.com/iptvcheck/iptv-check/internal/probe"
)

func TestClassify_structured(t *testing.T) {
	tests := []struct {
		name string
		res  probe.Result
		err  error
		want Health
	}{
		{"success", probe.Result{OK: true}, nil, Online},
		{"transport error", probe.Result{}, errors.New("dial tcp: connection refused"), Offline},
		{"timeout", probe.Result{Failure: &probe.Failure{Kind: probe.KindTimeout}}, nil, Timeout},
		{"403", probe.Result{Failure: &probe.Failure{Kind: probe.KindHTTPStatus, HTTPStatus: 403}}, nil, Error403},
		{"404", probe.Result{Failure: &probe.Failure{Kind: probe.KindHTTPStatus, HTTPStatus: 404}}, nil, Offline},
		{"400", probe.Result{Failure: &probe.Failure{Kind: probe.KindHTTPStatus, HTTPStatus: 400}}, nil, Offline},
		{"451", probe.Result{Failure: &probe.Failure{Kind: probe.KindHTTPStatus, HTTPStatus: 451}}, nil, Error40x},
		{"500", probe.Result{Failure: &probe.Failure{Kind: probe.KindHTTPStatus, HTTPStatus: 500}}, nil, Error40x},
		{"nil failure", probe.Result{}, nil, Offline},
	}
	for _, tt := range tests {
		if got := Classify(tt.res, tt.err); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassify_freeText(t *testing.T) {
	tests := []struct {
		reason string
		want   Health
	}{
		{"socket hang up, timed out", Timeout},
		{"server responded with 403", Error403},
		{"server responded with 451", Error40x},
		{"server responded with 404", Offline},
		{"DNS lookup failed", Offline},
		{"", Offline},
	}
	for _, tt := range tests {
		res := probe.Result{Failure: &probe.Failure{Kind: probe.KindUnknown, Message: tt.reason}}
		if got := Classify(res, nil); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.reason, got, tt.want)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name   string
		before playlist.Status
		health Health
		want   playlist.Status
	}{
		{"fresh online", playlist.StatusNone, Online, playlist.StatusNone},
		{"recovered from offline", playlist.StatusOffline, Online, playlist.StatusNot247},
		{"went offline", playlist.StatusNone, Offline, playlist.StatusOffline},
		{"403 marks offline", playlist.StatusNone, Error403, playlist.StatusOffline},
		{"timeout leaves status", playlist.StatusNone, Timeout, playlist.StatusNone},
		{"40x leaves status", playlist.StatusOffline, Error40x, playlist.StatusOffline},
	}
	for _, tt := range tests {
		ch := &playlist.Channel{Status: tt.before}
		UpdateStatus(ch, tt.health)
		if ch.Status != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, ch.Status, tt.want)
		}
	}
}

func TestUpdateResolution_writeOnceNeverDowngraded(t *testing.T) {
	ch := &playlist.Channel{}
	UpdateResolution(ch, probe.Result{Streams: []probe.Stream{{CodecType: "video", Width: 1280, Height: 720}}})
	if ch.Resolution.Height != 720 {
		t.Fatalf("resolution: %+v", ch.Resolution)
	}
	UpdateResolution(ch, probe.Result{Streams: []probe.Stream{{CodecType: "video", Width: 3840, Height: 2160}}})
	if ch.Resolution.Height != 720 {
		t.Errorf("resolution rewritten: %+v", ch.Resolution)
	}
	noRes := &playlist.Channel{}
	UpdateResolution(noRes, probe.Result{OK: true})
	if noRes.Resolution.Height != 0 {
		t.Errorf("no streams must not set resolution: %+v", noRes.Resolution)
	}
}
