package origin

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		chain []string
		want Kind
	}{
		{"same host", "http://a.example/stream", []string{"http://a.example/stream", "http://b.example/live"}, KindOrigin},
		{"different host", "http://a.example/stream", []string{"http://cdn.example/stream"}, KindRedirect},
		{"empty chain", "http://a.example/stream", nil, KindRedirect},
		{"https vs http same host", "https://a.example/x", []string{"https://a.example/x"}, KindOrigin},
	}
	for _, tt := range tests {
		if got := Classify(tt.url, tt.chain); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegister_firstClaimWins(t *testing.T) {
	m := NewMap()
	m.Register("http://a.example/stream", []string{"http://a.example/stream", "http://b.example/live"})
	m.Register("http://b.example/live", []string{"http://b.example/live"})

	// b.example/live was claimed by the first channel's chain walk, so the
	// second channel's own-URL lookup must resolve to the first channel.
	canon, ok := m.Canonical("http://b.example/live", []string{"http://b.example/live"})
	if !ok || canon != "http://a.example/stream" {
		t.Errorf("canonical = %q ok=%v", canon, ok)
	}
}

func TestRegister_redirectProbeSeedsNothing(t *testing.T) {
	m := NewMap()
	m.Register("http://mirror.example/x", []string{"http://cdn.example/x"})
	if m.Len() != 0 {
		t.Errorf("redirect probe registered %d entries", m.Len())
	}
}

func TestCanonical_ownURLBeforeChain(t *testing.T) {
	m := NewMap()
	m.Register("http://a.example/s", []string{"http://a.example/s"})
	m.Register("http://c.example/s", []string{"http://c.example/s", "http://d.example/s"})

	// Own URL registered: trivially rewrites to itself.
	canon, ok := m.Canonical("http://a.example/s", []string{"http://a.example/s", "http://c.example/s"})
	if !ok || canon != "http://a.example/s" {
		t.Errorf("own URL must take priority: %q ok=%v", canon, ok)
	}

	// Own URL unregistered: earliest chain entry wins.
	canon, ok = m.Canonical("http://z.example/s", []string{"http://d.example/s", "http://a.example/s"})
	if !ok || canon != "http://c.example/s" {
		t.Errorf("earliest chain entry must win: %q ok=%v", canon, ok)
	}
}

func TestCanonical_protocolStripped(t *testing.T) {
	m := NewMap()
	m.Register("https://a.example/s", []string{"https://a.example/s"})
	canon, ok := m.Canonical("http://a.example/s", nil)
	if !ok || canon != "https://a.example/s" {
		t.Errorf("http/https must compare equal after stripping: %q ok=%v", canon, ok)
	}
}

func TestCanonical_unknown(t *testing.T) {
	m := NewMap()
	if _, ok := m.Canonical("http://nowhere.example/x", []string{"http://nope.example/y"}); ok {
		t.Error("unknown URLs must not resolve")
	}
}

func TestDeterminism(t *testing.T) {
	build := func() *Map {
		m := NewMap()
		m.Register("http://a.example/1", []string{"http://a.example/1", "http://shared.example/x"})
		m.Register("http://b.example/2", []string{"http://b.example/2", "http://shared.example/x"})
		return m
	}
	m1, m2 := build(), build()
	for _, u := range []string{"http://a.example/1", "http://b.example/2", "http://q.example"} {
		c1, ok1 := m1.Canonical(u, []string{"http://shared.example/x"})
		c2, ok2 := m2.Canonical(u, []string{"http://shared.example/x"})
		if c1 != c2 || ok1 != ok2 {
			t.Errorf("non-deterministic canonicalization for %s: %q/%v vs %q/%v", u, c1, ok1, c2, ok2)
		}
	}
}
