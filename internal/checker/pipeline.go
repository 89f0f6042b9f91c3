package checker

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/iptvcheck/iptv-check/internal/enrich"
	"github.com/iptvcheck/iptv-check/internal/metrics"
	"github.com/iptvcheck/iptv-check/internal/origin"
	"github.com/iptvcheck/iptv-check/internal/playlist"
	"github.com/iptvcheck/iptv-check/internal/probe"
	"github.com/iptvcheck/iptv-check/internal/refdata"
	"github.com/iptvcheck/iptv-check/internal/safeurl"
)

// ResultCache persists probe results across passes. Implemented by
// probecache.Cache; nil disables caching.
type ResultCache interface {
	Get(url string) (probe.Result, bool)
	Put(url string, res probe.Result) error
}

// Pipeline verifies one playlist: probe each channel in source order,
// classify, enrich, then canonicalize mirror URLs. Probing is strictly
// sequential because origin registration is first-claim-wins and therefore
// order-dependent.
type Pipeline struct {
	Prober  probe.Prober
	Ref     *refdata.Set
	Cache   ResultCache
	Delay   time.Duration // minimum spacing between network probes
	Offline bool          // skip all probing
	Debug   bool          // per-failure diagnostics
	Metrics *metrics.Metrics
}

// Run processes every channel of pl in place. Channel-level errors are
// contained and logged; only context cancellation aborts the pass.
func (p *Pipeline) Run(ctx context.Context, pl *playlist.Playlist) error {
	ref := p.Ref
	if ref == nil {
		ref = refdata.Empty()
	}

	var limiter *rate.Limiter
	if p.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(p.Delay), 1)
	}

	// Result arena keyed by channel identity, and the pass-scoped origin
	// registry. Both are discarded when this playlist is done.
	origins := origin.NewMap()
	results := make(map[*playlist.Channel]probe.Result, len(pl.Channels))

	for _, ch := range pl.Channels {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.checkOne(ctx, pl, ch, limiter, origins, results)
		enrich.Apply(ch, pl.Country, ref)
	}

	// Second pass: rewrite mirrors to their discovered origins. Channels
	// without a successful probe keep their URL.
	for _, ch := range pl.Channels {
		res, ok := results[ch]
		if !ok || !res.OK {
			continue
		}
		if canon, found := origins.Canonical(ch.URL, res.RequestChain); found && canon != ch.URL {
			if p.Debug {
				log.Printf("Checker: %s: mirror of %s", ch.Name, canon)
			}
			ch.URL = canon
		}
	}
	return nil
}

// checkOne probes and classifies a single channel. A panic while processing
// one channel is contained here so the rest of the playlist still runs.
func (p *Pipeline) checkOne(ctx context.Context, pl *playlist.Playlist, ch *playlist.Channel,
	limiter *rate.Limiter, origins *origin.Map, results map[*playlist.Channel]probe.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Checker: %s: channel skipped after panic: %v", ch.Name, r)
		}
	}()

	if p.Offline || ch.Status.Sentinel() || !safeurl.IsHTTPOrHTTPS(ch.URL) {
		return
	}

	res, fromCache, err := p.probeOne(ctx, ch, limiter)
	if err != nil && ctx.Err() != nil {
		return
	}

	health := Classify(res, err)
	p.Metrics.IncProbes()
	p.Metrics.IncStatus(health.String())
	if fromCache {
		p.Metrics.IncCacheHits()
	}
	if p.Debug && health != Online {
		if err != nil {
			log.Printf("Checker: %s: probe error: %v", ch.Name, err)
		} else if res.Failure != nil {
			log.Printf("Checker: %s: %s (%s)", ch.Name, res.Failure.Error(), health)
		}
	}

	UpdateStatus(ch, health)
	UpdateResolution(ch, res)

	if res.OK {
		// Registration uses the pre-rewrite URL; rewriting happens after the
		// whole playlist has been probed.
		origins.Register(ch.URL, res.RequestChain)
		results[ch] = res
	}
}

// probeOne consults the cache, then the network. Transport errors are not
// cached; structured results are.
func (p *Pipeline) probeOne(ctx context.Context, ch *playlist.Channel, limiter *rate.Limiter) (probe.Result, bool, error) {
	if p.Cache != nil {
		if res, ok := p.Cache.Get(ch.URL); ok {
			return res, true, nil
		}
	}
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return probe.Result{}, false, err
		}
	}
	res, err := p.Prober.Probe(ctx, probe.Request{
		URL:       ch.URL,
		UserAgent: ch.UserAgent,
		Referrer:  ch.Referrer,
	})
	if err == nil && p.Cache != nil {
		if cacheErr := p.Cache.Put(ch.URL, res); cacheErr != nil {
			log.Printf("Checker: probe cache write failed: %v", cacheErr)
		}
	}
	return res, false, err
}
