package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/links"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/placeholder"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// cacheKeyType labels derivation entries in cache hooks.
const cacheKeyType = "derive"

// Runner encapsulates derivation with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner as long
// as each passes a tree no one else is mutating.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long derived views stay cached. Zero uses cache.TTLDerive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Derive runs layout → links → placeholders → suggestions on t, returning a
// cached result when the same tree content, version and options were derived
// before.
func (r *Runner) Derive(ctx context.Context, t *family.Tree, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	treeHash, err := graph.Hash(t)
	if err != nil {
		return nil, fmt.Errorf("hash tree: %w", err)
	}
	key := r.Keyer.DeriveKey(treeHash, opts.KeyOpts(t.Version()))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKeyType)
				opts.Logger.Debug("derived view from cache", "version", t.Version())
				return &Result{Layout: cached, TreeHash: treeHash, Stats: countStats(t, cached), CacheHit: true}, nil
			}
			// Undecodable entries fall through to recompute.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	result := &Result{TreeHash: treeHash}
	out, err := r.compute(ctx, t, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Layout = out
	result.Stats = mergeCounts(result.Stats, countStats(t, out))

	if data, err := graph.MarshalLayout(out); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}

	opts.Logger.Info("derived view",
		"people", result.Stats.People,
		"links", result.Stats.Links,
		"suggestions", result.Stats.Suggestions,
		"duration", result.Stats.Total())
	return result, nil
}

func (r *Runner) compute(ctx context.Context, t *family.Tree, opts Options, stats *Stats) (graph.Layout, error) {
	out := graph.Layout{Version: t.Version(), Settings: opts.Settings, FocusID: opts.FocusID}

	var nodes []layout.Node
	err := stage(ctx, observability.StageLayout, t.Len(), &stats.LayoutTime, func() error {
		var err error
		nodes, err = layout.Compute(t, opts.Settings, opts.RootID)
		return err
	})
	if err != nil {
		return graph.Layout{}, fmt.Errorf("layout: %w", err)
	}
	out.Nodes = graph.NodesFrom(nodes)
	out.Width, out.Height = layout.Bounds(nodes, opts.Settings)

	_ = stage(ctx, observability.StageLinks, t.Len(), &stats.LinksTime, func() error {
		out.Links = links.Compute(nodes, t.Edges(), opts.Settings)
		return nil
	})

	if opts.FocusID != "" {
		err := stage(ctx, observability.StagePlaceholders, t.Len(), &stats.PlaceholdersTime, func() error {
			var err error
			out.Placeholders, err = placeholder.Compute(opts.FocusID, t, nodes, opts.Settings)
			return err
		})
		if err != nil {
			return graph.Layout{}, fmt.Errorf("placeholders: %w", err)
		}
	}

	if !opts.SkipSuggestions {
		_ = stage(ctx, observability.StageSuggestions, t.Len(), &stats.SuggestionsTime, func() error {
			out.Suggestions = suggest.Compute(t, opts.Suggest)
			return nil
		})
	}

	return out, ctx.Err()
}

// stage runs fn between derive hooks and records its duration. A cancelled
// context skips the stage.
func stage(ctx context.Context, name string, people int, took *time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Derive()
	hooks.OnStageStart(ctx, name, people)
	start := time.Now()
	err := fn()
	*took = time.Since(start)
	hooks.OnStageComplete(ctx, name, *took, err)
	return err
}

func countStats(t *family.Tree, l graph.Layout) Stats {
	return Stats{
		People:       len(l.Nodes),
		Edges:        t.EdgeCount(),
		Links:        len(l.Links),
		Placeholders: len(l.Placeholders),
		Suggestions:  len(l.Suggestions),
	}
}

func mergeCounts(timings, counts Stats) Stats {
	counts.LayoutTime = timings.LayoutTime
	counts.LinksTime = timings.LinksTime
	counts.PlaceholdersTime = timings.PlaceholdersTime
	counts.SuggestionsTime = timings.SuggestionsTime
	return counts
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLDerive
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
