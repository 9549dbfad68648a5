package suggest

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/kintree/pkg/family"
)

// Kind classifies a suggestion.
type Kind string

const (
	KindMissingParent     Kind = "missingParent"
	KindAgeAnomaly        Kind = "ageAnomaly"
	KindPossibleDuplicate Kind = "possibleDuplicate"
)

// Priority orders suggestions for review.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Message keys identify the user-facing text of a suggestion.
const (
	MsgNoParents       = "suggest.missingParent.none"
	MsgOneParent       = "suggest.missingParent.one"
	MsgParentTooYoung  = "suggest.ageAnomaly.parentTooYoung"
	MsgSpouseAgeGap    = "suggest.ageAnomaly.spouseAgeGap"
	MsgSameNameAndYear = "suggest.possibleDuplicate.sameNameAndYear"
)

// Default option values.
const (
	DefaultMinParentAgeGap = 12
	DefaultMaxSpouseAgeGap = 30
)

// Suggestion is one finding about a person.
type Suggestion struct {
	PersonID   string   `json:"personId"`
	Kind       Kind     `json:"kind"`
	Priority   Priority `json:"priority"`
	MessageKey string   `json:"messageKey"`
	RelatedIDs []string `json:"relatedIds,omitempty"`
}

// Options tunes the age checks. Zero values select the defaults.
type Options struct {
	// MinParentAgeGap is the smallest plausible number of years between a
	// parent's birth and a child's birth.
	MinParentAgeGap int `json:"minParentAgeGap" toml:"min_parent_age_gap"`

	// MaxSpouseAgeGap is the largest plausible difference between spouses'
	// birth years.
	MaxSpouseAgeGap int `json:"maxSpouseAgeGap" toml:"max_spouse_age_gap"`
}

// DefaultOptions returns the default thresholds.
func DefaultOptions() Options {
	return Options{MinParentAgeGap: DefaultMinParentAgeGap, MaxSpouseAgeGap: DefaultMaxSpouseAgeGap}
}

// WithDefaults fills zero fields with their defaults.
func (o Options) WithDefaults() Options {
	if o.MinParentAgeGap == 0 {
		o.MinParentAgeGap = DefaultMinParentAgeGap
	}
	if o.MaxSpouseAgeGap == 0 {
		o.MaxSpouseAgeGap = DefaultMaxSpouseAgeGap
	}
	return o
}

// Compute evaluates every person of t and returns the suggestions ranked by
// priority, then by the person's insertion order, then by kind.
func Compute(t *family.Tree, opts Options) []Suggestion {
	opts = opts.WithDefaults()
	order := t.OrderIndex()

	var out []Suggestion
	out = append(out, missingParents(t)...)
	out = append(out, ageAnomalies(t, opts, order)...)
	out = append(out, duplicates(t)...)

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Or(
			cmp.Compare(priorityRank[a.Priority], priorityRank[b.Priority]),
			cmp.Compare(order[a.PersonID], order[b.PersonID]),
			cmp.Compare(kindRank[a.Kind], kindRank[b.Kind]),
		)
	})
	return out
}

// ForPerson returns the suggestions about id.
func ForPerson(all []Suggestion, id string) []Suggestion {
	var out []Suggestion
	for _, s := range all {
		if s.PersonID == id {
			out = append(out, s)
		}
	}
	return out
}

var (
	priorityRank = map[Priority]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}
	kindRank     = map[Kind]int{KindMissingParent: 0, KindAgeAnomaly: 1, KindPossibleDuplicate: 2}
)

func missingParents(t *family.Tree) []Suggestion {
	var out []Suggestion
	for _, p := range t.People() {
		switch len(t.ParentsOf(p.ID)) {
		case 0:
			out = append(out, Suggestion{PersonID: p.ID, Kind: KindMissingParent, Priority: PriorityHigh, MessageKey: MsgNoParents})
		case 1:
			out = append(out, Suggestion{PersonID: p.ID, Kind: KindMissingParent, Priority: PriorityMedium, MessageKey: MsgOneParent})
		}
	}
	return out
}

func ageAnomalies(t *family.Tree, opts Options, order map[string]int) []Suggestion {
	var out []Suggestion
	for _, p := range t.People() {
		for _, pid := range t.ParentsOf(p.ID) {
			parent, _ := t.Person(pid)
			if p.BirthYear-parent.BirthYear < opts.MinParentAgeGap {
				out = append(out, Suggestion{
					PersonID:   p.ID,
					Kind:       KindAgeAnomaly,
					Priority:   PriorityMedium,
					MessageKey: MsgParentTooYoung,
					RelatedIDs: []string{pid},
				})
			}
		}
		for _, sid := range t.SpousesOf(p.ID) {
			// Each pair is reported on the earlier inserted partner.
			if order[sid] < order[p.ID] {
				continue
			}
			sp, _ := t.Person(sid)
			if abs(p.BirthYear-sp.BirthYear) > opts.MaxSpouseAgeGap {
				out = append(out, Suggestion{
					PersonID:   p.ID,
					Kind:       KindAgeAnomaly,
					Priority:   PriorityMedium,
					MessageKey: MsgSpouseAgeGap,
					RelatedIDs: []string{sid},
				})
			}
		}
	}
	return out
}

func duplicates(t *family.Tree) []Suggestion {
	type key struct {
		name string
		year int
	}
	groups := make(map[key][]string)
	var keys []key
	for _, p := range t.People() {
		k := key{NormalizeName(p.Name), p.BirthYear}
		if k.name == "" {
			continue
		}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], p.ID)
	}

	var out []Suggestion
	for _, k := range keys {
		ids := groups[k]
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			others := slices.DeleteFunc(slices.Clone(ids), func(o string) bool { return o == id })
			out = append(out, Suggestion{
				PersonID:   id,
				Kind:       KindPossibleDuplicate,
				Priority:   PriorityLow,
				MessageKey: MsgSameNameAndYear,
				RelatedIDs: others,
			})
		}
	}
	return out
}

// NormalizeName case folds name, strips diacritics and collapses whitespace,
// so "  José   Núñez" and "jose nunez" compare equal.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
