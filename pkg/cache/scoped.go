package cache

// ScopedKeyer wraps a Keyer with a prefix so several trees, or several
// servers sharing one Redis, keep separate namespaces.
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tree:smiths:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DeriveKey generates a prefixed key for a derived view.
func (k *ScopedKeyer) DeriveKey(treeHash string, opts DeriveKeyOpts) string {
	return k.prefix + k.inner.DeriveKey(treeHash, opts)
}
