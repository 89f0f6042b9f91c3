package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// State tracks checker progress for the /healthz endpoint. A pass that has
// not finished yet reports "checking"; after the first completed pass the
// endpoint reports "ok" with pass counters.
type State struct {
	mu        sync.Mutex
	started   time.Time
	lastPass  time.Time
	passes    int
	playlists int
	channels  int
}

func NewState() *State {
	return &State{started: time.Now()}
}

// RecordPass marks a completed checker pass over the selected playlists.
func (s *State) RecordPass(playlists, channels int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPass = time.Now()
	s.passes++
	s.playlists = playlists
	s.channels = channels
}

type report struct {
	Status    string `json:"status"`
	UptimeSec int64  `json:"uptime_sec"`
	Passes    int    `json:"passes"`
	LastPass  string `json:"last_pass,omitempty"`
	Playlists int    `json:"playlists,omitempty"`
	Channels  int    `json:"channels,omitempty"`
}

// Handler serves the JSON status document.
func (s *State) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		rep := report{
			Status:    "checking",
			UptimeSec: int64(time.Since(s.started).Seconds()),
			Passes:    s.passes,
			Playlists: s.playlists,
			Channels:  s.channels,
		}
		if s.passes > 0 {
			rep.Status = "ok"
			rep.LastPass = s.lastPass.UTC().Format(time.RFC3339)
		}
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rep)
	})
}
