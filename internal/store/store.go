// Package store locates, reads and writes the source playlist files. Source
// playlists live in one directory as <country-code>.m3u; the file name is the
// playlist's default country hint.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iptvcheck/iptv-check/internal/playlist"
)

// ErrNoSelection means the include/exclude filters matched zero playlists.
// Reported to the operator; the pass ends with nothing to do.
var ErrNoSelection = errors.New("no playlists match the country filters")

// List returns the selected playlist paths under dir, sorted by name.
// include/exclude are country codes (case-insensitive); an empty include
// list selects everything not excluded.
func List(dir string, include, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	inc := codeSet(include)
	exc := codeSet(exclude)

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".m3u") {
			continue
		}
		code := CountryOf(e.Name())
		if exc[code] {
			continue
		}
		if len(inc) > 0 && !inc[code] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, ErrNoSelection
	}
	sort.Strings(paths)
	return paths, nil
}

// CountryOf derives the country hint from a playlist file name
// ("us.m3u" → "US").
func CountryOf(name string) string {
	return strings.ToUpper(strings.TrimSuffix(filepath.Base(name), ".m3u"))
}

func codeSet(codes []string) map[string]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			set[c] = true
		}
	}
	return set
}

// Load reads and parses one playlist file.
func Load(path string) (*playlist.Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}
	defer f.Close()
	return playlist.Parse(f, path, CountryOf(path))
}

// Save writes the playlist's channels back to its source file atomically.
func Save(pl *playlist.Playlist) error {
	return WriteFile(pl.Path, playlist.Marshal(pl.Channels))
}

// WriteFile writes data to path via a temp file and rename so readers never
// see a partial playlist.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".playlist-*.tmp")
	if err != nil {
		return fmt.Errorf("write playlist: create temp: %w", err)
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if writeErr != nil {
			return fmt.Errorf("write playlist: %w", writeErr)
		}
		return fmt.Errorf("write playlist: close: %w", closeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write playlist: rename: %w", err)
	}
	return os.Chmod(path, 0o644)
}
