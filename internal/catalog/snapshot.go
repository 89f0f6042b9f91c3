package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iptvcheck/iptv-check/internal/playlist"
)

// SaveJSON writes the full channel records as a JSON array for programmatic
// consumers, atomically (temp file + rename).
func SaveJSON(path string, channels []*playlist.Channel) error {
	data, err := json.MarshalIndent(channels, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".channels-*.json.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp: %w", err)
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if writeErr != nil {
			return fmt.Errorf("snapshot: write: %w", writeErr)
		}
		return fmt.Errorf("snapshot: close: %w", closeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}
