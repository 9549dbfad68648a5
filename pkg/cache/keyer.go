package cache

// Keyer generates cache keys.
type Keyer interface {
	// DeriveKey returns the key of a derived view of the tree with the given
	// content hash.
	DeriveKey(treeHash string, opts DeriveKeyOpts) string
}

// DeriveKeyOpts lists every input of a derivation besides the tree content.
type DeriveKeyOpts struct {
	Version         uint64 `json:"version"`
	Settings        string `json:"settings"`
	RootID          string `json:"root_id,omitempty"`
	FocusID         string `json:"focus_id,omitempty"`
	MinParentAgeGap int    `json:"min_parent_age_gap"`
	MaxSpouseAgeGap int    `json:"max_spouse_age_gap"`
}

// DefaultKeyer produces "derive:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DeriveKey hashes the tree hash together with the options.
func (DefaultKeyer) DeriveKey(treeHash string, opts DeriveKeyOpts) string {
	return hashKey("derive", treeHash, opts)
}
