// Package generator regenerates every output playlist from the verified
// catalog: a master index (with and without NSFW entries), and one file per
// category, country and language partition. Every output is produced by the
// same composed query (sort, dedup, exclude), so regeneration is
// deterministic.
package generator

import (
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/iptvcheck/iptv-check/internal/catalog"
	"github.com/iptvcheck/iptv-check/internal/playlist"
	"github.com/iptvcheck/iptv-check/internal/store"
)

// baseKeys is the shared sort order: name, then status, then resolution
// (highest first, so dedup keeps the sharpest copy), then URL.
func baseKeys() []catalog.Key {
	return []catalog.Key{
		catalog.ByName,
		catalog.ByStatus,
		catalog.Desc(catalog.ByHeight),
		catalog.ByURL,
	}
}

// Generate writes all output playlists and the JSON snapshot under outDir.
// The partition families are independent read-only views over the same
// catalog, so they are generated concurrently.
func Generate(channels []*playlist.Channel, outDir string) error {
	col := catalog.New(channels)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				log.Printf("Generator: %s: %v", name, err)
			}
		}()
	}

	run("master", func() error { return writeMaster(col, outDir) })
	run("categories", func() error { return writeCategories(col, outDir) })
	run("countries", func() error { return writeCountries(col, outDir) })
	run("languages", func() error { return writeLanguages(col, outDir) })
	run("snapshot", func() error {
		return catalog.SaveJSON(filepath.Join(outDir, "channels.json"), col.Channels())
	})
	wg.Wait()
	return firstErr
}

func writeOutput(path string, col catalog.Collection) error {
	if err := store.WriteFile(path, playlist.Marshal(col.Channels())); err != nil {
		return err
	}
	log.Printf("Generator: %s: %d channels", path, col.Count())
	return nil
}

func writeMaster(col catalog.Collection, outDir string) error {
	deduped := col.SortBy(baseKeys()...).Dedup().WithoutOffline()
	if err := writeOutput(filepath.Join(outDir, "index.m3u"), deduped.WithoutNSFW()); err != nil {
		return err
	}
	return writeOutput(filepath.Join(outDir, "index.nsfw.m3u"), deduped)
}

func writeCategories(col catalog.Collection, outDir string) error {
	sorted := col.SortBy(append([]catalog.Key{catalog.ByGroup}, baseKeys()...)...).Dedup().WithoutOffline()
	for _, category := range playlist.Categories {
		part := sorted.Filter(catalog.InCategory(category))
		if part.Count() == 0 {
			continue
		}
		path := filepath.Join(outDir, "categories", slug(category)+".m3u")
		if err := writeOutput(path, part); err != nil {
			return err
		}
	}
	return nil
}

func writeCountries(col catalog.Collection, outDir string) error {
	sorted := col.SortBy(baseKeys()...).Dedup().WithoutOffline().WithoutNSFW()
	for _, code := range countryCodes(sorted) {
		part := sorted.Filter(catalog.HasCountry(code))
		path := filepath.Join(outDir, "countries", slug(code)+".m3u")
		if err := writeOutput(path, part); err != nil {
			return err
		}
	}
	return nil
}

func writeLanguages(col catalog.Collection, outDir string) error {
	sorted := col.SortBy(baseKeys()...).Dedup().WithoutOffline().WithoutNSFW()
	for _, lang := range languageNames(sorted) {
		part := sorted.Filter(catalog.HasLanguage(lang))
		path := filepath.Join(outDir, "languages", slug(lang)+".m3u")
		if err := writeOutput(path, part); err != nil {
			return err
		}
	}
	return nil
}

func countryCodes(col catalog.Collection) []string {
	seen := make(map[string]bool)
	for _, ch := range col.Channels() {
		for _, c := range ch.Countries {
			seen[strings.ToUpper(c.Code)] = true
		}
	}
	return sortedKeys(seen)
}

func languageNames(col catalog.Collection) []string {
	seen := make(map[string]bool)
	for _, ch := range col.Channels() {
		for _, lang := range strings.Split(ch.Language, ";") {
			if lang = strings.TrimSpace(lang); lang != "" {
				seen[lang] = true
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}
