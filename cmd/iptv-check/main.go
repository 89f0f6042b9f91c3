// Command iptv-check verifies a catalog of streaming channels and regenerates
// the output playlists.
//
//	check     Probe every selected playlist's channels, classify health,
//	          enrich metadata, canonicalize mirror URLs, write playlists back.
//	generate  Load all playlists into the catalog engine and emit the master,
//	          category, country and language indexes plus the JSON snapshot.
//	run       check then generate, one shot. For cron/systemd.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iptvcheck/iptv-check/internal/checker"
	"github.com/iptvcheck/iptv-check/internal/config"
	"github.com/iptvcheck/iptv-check/internal/generator"
	"github.com/iptvcheck/iptv-check/internal/health"
	"github.com/iptvcheck/iptv-check/internal/metrics"
	"github.com/iptvcheck/iptv-check/internal/playlist"
	"github.com/iptvcheck/iptv-check/internal/probe"
	"github.com/iptvcheck/iptv-check/internal/probecache"
	"github.com/iptvcheck/iptv-check/internal/refdata"
	"github.com/iptvcheck/iptv-check/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "check":
		err = cmdCheck(ctx, args)
	case "generate":
		err = cmdGenerate(args)
	case "run":
		if err = cmdCheck(ctx, args); err == nil {
			err = cmdGenerate(args)
		}
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("iptv-check %s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: iptv-check <command> [flags]

Commands:
  check     verify streams and write updated playlists back
  generate  regenerate output playlists from the verified catalog
  run       check then generate

Flags (all commands):
  -config path        YAML config file (default iptv-check.yaml if present)
  -countries codes    comma-separated country codes to include
  -exclude codes      comma-separated country codes to exclude
  -timeout duration   per-probe timeout
  -delay duration     spacing between probes
  -offline            skip probing and remote reference feeds
  -force              ignore the probe result cache
  -debug              per-failure diagnostics
`)
}

// loadConfig parses the shared flags and merges them over the config file/env.
func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("iptv-check", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	countries := fs.String("countries", "", "country codes to include (comma-separated)")
	exclude := fs.String("exclude", "", "country codes to exclude (comma-separated)")
	timeout := fs.Duration("timeout", 0, "per-probe timeout")
	delay := fs.Duration("delay", 0, "spacing between probes")
	offline := fs.Bool("offline", false, "skip probing and remote reference feeds")
	force := fs.Bool("force", false, "ignore the probe result cache")
	debug := fs.Bool("debug", false, "per-failure diagnostics")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *countries != "" {
		cfg.IncludeCountries = splitCodes(*countries)
	}
	if *exclude != "" {
		cfg.ExcludeCountries = splitCodes(*exclude)
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *delay > 0 {
		cfg.Delay = *delay
	}
	cfg.Offline = cfg.Offline || *offline
	cfg.Debug = cfg.Debug || *debug
	if *force {
		cfg.CacheFile = ""
	}
	return cfg, nil
}

func splitCodes(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cmdCheck(ctx context.Context, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	paths, err := store.List(cfg.ChannelsDir, cfg.IncludeCountries, cfg.ExcludeCountries)
	if errors.Is(err, store.ErrNoSelection) {
		log.Printf("Checker: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	ref := refdata.Empty()
	if !cfg.Offline {
		ref = refdata.Load(ctx, refdata.FeedURLs{
			Channels:  cfg.ChannelsFeedURL,
			EPGCodes:  cfg.EPGCodesFeedURL,
			Countries: cfg.CountriesFeedURL,
			Languages: cfg.LanguagesFeedURL,
		})
	}

	pipeline := &checker.Pipeline{
		Prober:  probe.NewHTTPProber(cfg.Timeout),
		Ref:     ref,
		Delay:   cfg.Delay,
		Offline: cfg.Offline,
		Debug:   cfg.Debug,
	}

	if cfg.CacheFile != "" {
		cache, err := probecache.Open(cfg.CacheFile, cfg.CacheTTL)
		if err != nil {
			log.Printf("Checker: probe cache disabled: %v", err)
		} else {
			defer cache.Close()
			pipeline.Cache = cache
		}
	}

	state := health.NewState()
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		pipeline.Metrics = m
		go serveMetrics(cfg.MetricsAddr, m, state)
	}

	start := time.Now()
	total := 0
	for _, path := range paths {
		pl, err := store.Load(path)
		if err != nil {
			log.Printf("Checker: %s: %v", path, err)
			continue
		}
		log.Printf("Checker: %s: %d channels", path, len(pl.Channels))
		if err := pipeline.Run(ctx, pl); err != nil {
			return err
		}
		if err := store.Save(pl); err != nil {
			return err
		}
		total += len(pl.Channels)
	}
	pipeline.Metrics.ObservePass(time.Since(start).Seconds(), total)
	state.RecordPass(len(paths), total)
	log.Printf("Checker: done: %d playlists, %d channels in %s", len(paths), total, time.Since(start).Round(time.Second))
	return nil
}

func serveMetrics(addr string, m *metrics.Metrics, state *health.State) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/healthz", state.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("Metrics: %v", err)
	}
}

func cmdGenerate(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	paths, err := store.List(cfg.ChannelsDir, cfg.IncludeCountries, cfg.ExcludeCountries)
	if errors.Is(err, store.ErrNoSelection) {
		log.Printf("Generator: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	var channels []*playlist.Channel
	for _, path := range paths {
		pl, err := store.Load(path)
		if err != nil {
			log.Printf("Generator: %s: %v", path, err)
			continue
		}
		channels = append(channels, pl.Channels...)
	}
	log.Printf("Generator: %d channels from %d playlists", len(channels), len(paths))
	return generator.Generate(channels, cfg.OutputDir)
}
