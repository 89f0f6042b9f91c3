// Package config holds the pass-level settings: probe timeout and spacing,
// offline/debug modes, country filters, feed URLs and paths. Values come from
// defaults, then an optional YAML file, then environment variables (highest
// precedence). A .env file in the working directory is honoured.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface. Nothing here is persisted state;
// every field applies to a single pass.
type Config struct {
	ChannelsDir string // source playlists, one <country-code>.m3u per file
	OutputDir   string // generated indexes + JSON snapshot

	Timeout time.Duration // per-probe timeout
	Delay   time.Duration // minimum spacing between probes
	Offline bool          // skip probing and remote reference loading
	Debug   bool          // per-failure diagnostics

	IncludeCountries []string
	ExcludeCountries []string

	ChannelsFeedURL  string
	EPGCodesFeedURL  string
	CountriesFeedURL string
	LanguagesFeedURL string

	CacheFile string        // sqlite probe cache; "" disables
	CacheTTL  time.Duration // probe result freshness window

	MetricsAddr string // optional Prometheus listen address, e.g. ":9090"
}

// fileConfig mirrors Config for the optional YAML file.
type fileConfig struct {
	ChannelsDir string        `yaml:"channels_dir"`
	OutputDir   string        `yaml:"output_dir"`
	Timeout     time.Duration `yaml:"timeout"`
	Delay       time.Duration `yaml:"delay"`
	Offline     bool          `yaml:"offline"`
	Debug       bool          `yaml:"debug"`
	Countries   struct {
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"countries"`
	Feeds struct {
		Channels  string `yaml:"channels"`
		EPGCodes  string `yaml:"epg_codes"`
		Countries string `yaml:"countries"`
		Languages string `yaml:"languages"`
	} `yaml:"feeds"`
	Cache struct {
		File string        `yaml:"file"`
		TTL  time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load builds the configuration. path names a YAML file; when empty,
// "iptv-check.yaml" is used if present. Environment variables override file
// values; a .env file is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		ChannelsDir: "channels",
		OutputDir:   "out",
		Timeout:     10 * time.Second,
		CacheTTL:    4 * time.Hour,
	}

	if err := c.applyFile(path); err != nil {
		return nil, err
	}
	c.applyEnv()

	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 4 * time.Hour
	}
	return c, nil
}

func (c *Config) applyFile(path string) error {
	optional := path == ""
	if optional {
		path = "iptv-check.yaml"
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	setString(&c.ChannelsDir, fc.ChannelsDir)
	setString(&c.OutputDir, fc.OutputDir)
	setDuration(&c.Timeout, fc.Timeout)
	setDuration(&c.Delay, fc.Delay)
	c.Offline = c.Offline || fc.Offline
	c.Debug = c.Debug || fc.Debug
	if len(fc.Countries.Include) > 0 {
		c.IncludeCountries = fc.Countries.Include
	}
	if len(fc.Countries.Exclude) > 0 {
		c.ExcludeCountries = fc.Countries.Exclude
	}
	setString(&c.ChannelsFeedURL, fc.Feeds.Channels)
	setString(&c.EPGCodesFeedURL, fc.Feeds.EPGCodes)
	setString(&c.CountriesFeedURL, fc.Feeds.Countries)
	setString(&c.LanguagesFeedURL, fc.Feeds.Languages)
	setString(&c.CacheFile, fc.Cache.File)
	setDuration(&c.CacheTTL, fc.Cache.TTL)
	setString(&c.MetricsAddr, fc.MetricsAddr)
	return nil
}

func (c *Config) applyEnv() {
	c.ChannelsDir = getEnv("IPTV_CHECK_CHANNELS_DIR", c.ChannelsDir)
	c.OutputDir = getEnv("IPTV_CHECK_OUTPUT_DIR", c.OutputDir)
	c.Timeout = getEnvDuration("IPTV_CHECK_TIMEOUT", c.Timeout)
	c.Delay = getEnvDuration("IPTV_CHECK_DELAY", c.Delay)
	c.Offline = getEnvBool("IPTV_CHECK_OFFLINE", c.Offline)
	c.Debug = getEnvBool("IPTV_CHECK_DEBUG", c.Debug)
	if codes := getEnvList("IPTV_CHECK_COUNTRIES"); len(codes) > 0 {
		c.IncludeCountries = codes
	}
	if codes := getEnvList("IPTV_CHECK_EXCLUDE_COUNTRIES"); len(codes) > 0 {
		c.ExcludeCountries = codes
	}
	c.ChannelsFeedURL = getEnv("IPTV_CHECK_CHANNELS_FEED", c.ChannelsFeedURL)
	c.EPGCodesFeedURL = getEnv("IPTV_CHECK_EPG_CODES_FEED", c.EPGCodesFeedURL)
	c.CountriesFeedURL = getEnv("IPTV_CHECK_COUNTRIES_FEED", c.CountriesFeedURL)
	c.LanguagesFeedURL = getEnv("IPTV_CHECK_LANGUAGES_FEED", c.LanguagesFeedURL)
	c.CacheFile = getEnv("IPTV_CHECK_CACHE_FILE", c.CacheFile)
	c.CacheTTL = getEnvDuration("IPTV_CHECK_CACHE_TTL", c.CacheTTL)
	c.MetricsAddr = getEnv("IPTV_CHECK_METRICS_ADDR", c.MetricsAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
