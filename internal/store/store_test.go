package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iptvcheck/iptv-check/internal/playlist"
)

func writePlaylists(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		content := "#EXTM3U\n#EXTINF:-1 tvg-id=\"\" tvg-country=\"\" tvg-language=\"\" tvg-logo=\"\" group-title=\"\",Test\nhttp://x.example/s\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestList_filters(t *testing.T) {
	dir := writePlaylists(t, "us.m3u", "fr.m3u", "de.m3u", "notes.txt")

	all, err := List(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all: %v", all)
	}

	only, err := List(dir, []string{"us", "FR"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(only) != 2 {
		t.Errorf("include: %v", only)
	}

	rest, err := List(dir, nil, []string{"DE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 2 {
		t.Errorf("exclude: %v", rest)
	}
}

func TestList_noSelection(t *testing.T) {
	dir := writePlaylists(t, "us.m3u")
	_, err := List(dir, []string{"JP"}, nil)
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestLoadSave_roundTrip(t *testing.T) {
	dir := writePlaylists(t, "us.m3u")
	path := filepath.Join(dir, "us.m3u")

	pl, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if pl.Country != "US" || len(pl.Channels) != 1 {
		t.Fatalf("loaded: %+v", pl)
	}

	pl.Channels[0].Status = playlist.StatusOffline
	if err := Save(pl); err != nil {
		t.Fatal(err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Channels[0].Status != playlist.StatusOffline {
		t.Errorf("status lost on save: %+v", again.Channels[0])
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left: %v", entries)
	}
}
