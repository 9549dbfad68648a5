// Package pipeline provides the derivation pipeline for kintree.
//
// This package turns a family tree into everything a renderer needs: card
// positions, connecting lines, placeholder slots and suggestions. The CLI and
// the API server both go through it, so they derive identical views and
// share one caching strategy.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Layout: position every person (pkg/layout)
//  2. Links: derive the connecting lines (pkg/links)
//  3. Placeholders: propose relative slots around a focused person (pkg/placeholder)
//  4. Suggestions: review the tree for likely mistakes (pkg/suggest)
//
// Placeholders only run when a focus is set. Every stage is pure, so the
// combined result is memoized on the tree content, its version and the
// options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Derive(ctx, tree, pipeline.Options{FocusID: "ada"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	graph.WriteLayoutFile(result.Layout, "layout.json")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a derivation.
// This struct supports JSON serialization for API requests.
type Options struct {
	Settings layout.Settings `json:"settings"`
	RootID   string          `json:"root_id,omitempty"`  // layout root; empty selects the first person
	FocusID  string          `json:"focus_id,omitempty"` // person to plan placeholders for
	Suggest  suggest.Options `json:"suggest"`

	SkipSuggestions bool `json:"skip_suggestions,omitempty"`
	Refresh         bool `json:"refresh,omitempty"` // bypass the cache read

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a derivation.
type Result struct {
	// Layout is the derived view.
	Layout graph.Layout

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Layout came from the cache. Stage timings
	// are zero on a hit.
	CacheHit bool
}

// Stats contains derivation statistics.
type Stats struct {
	People       int
	Edges        int
	Links        int
	Placeholders int
	Suggestions  int

	LayoutTime       time.Duration
	LinksTime        time.Duration
	PlaceholdersTime time.Duration
	SuggestionsTime  time.Duration
}

// Total is the summed duration of all stages.
func (s Stats) Total() time.Duration {
	return s.LayoutTime + s.LinksTime + s.PlaceholdersTime + s.SuggestionsTime
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset layout settings, suggestion thresholds and the logger.
func (o *Options) SetDefaults() {
	o.Settings = o.Settings.WithDefaults()
	o.Suggest = o.Suggest.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates the layout settings.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// KeyOpts returns cache key options for a tree at the given version.
func (o *Options) KeyOpts(version uint64) cache.DeriveKeyOpts {
	k := cache.DeriveKeyOpts{
		Version:  version,
		Settings: o.Settings.Key(),
		RootID:   o.RootID,
		FocusID:  o.FocusID,
	}
	if !o.SkipSuggestions {
		k.MinParentAgeGap = o.Suggest.MinParentAgeGap
		k.MaxSpouseAgeGap = o.Suggest.MaxSpouseAgeGap
	}
	return k
}
