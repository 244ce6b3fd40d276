package style

type cacheKey struct {
	role    Role
	variant Variant
}

// Cache memoizes resolved styles for a single field instance. Entries are
// populated lazily and dropped by Release; a Cache is never shared between
// fields.
type Cache struct {
	resolver Resolver
	entries  map[cacheKey]Style
}

// NewCache wraps resolver. A nil resolver falls back to Default().
func NewCache(resolver Resolver) *Cache {
	if resolver == nil {
		resolver = Default()
	}
	return &Cache{resolver: resolver}
}

// Get returns the style for role/variant, resolving it on first use.
func (c *Cache) Get(role Role, variant Variant) Style {
	if c == nil {
		return Style{}
	}
	key := cacheKey{role: role, variant: variant}
	if s, ok := c.entries[key]; ok {
		return s
	}
	if c.entries == nil {
		c.entries = make(map[cacheKey]Style)
	}
	s := c.resolver.Resolve(role, variant)
	c.entries[key] = s
	return s
}

// Snapshot resolves every role for variant and returns them keyed by role.
func (c *Cache) Snapshot(variant Variant) map[Role]Style {
	out := make(map[Role]Style, len(Roles()))
	for _, role := range Roles() {
		out[role] = c.Get(role, variant)
	}
	return out
}

// Len reports how many entries are cached.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Release drops every cached entry.
func (c *Cache) Release() {
	if c == nil {
		return
	}
	c.entries = nil
}
