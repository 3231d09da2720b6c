// Package catalog holds the deduplicated, insertion-ordered lists that make
// up the descriptor.
package catalog

// Sentinel type entries that always open the type catalog, in this order.
const (
	TypeAll          = "ALL"
	TypeAllSorted    = "ALL_SORTED"
	TypeAllFunctions = "ALL_FUNCTIONS"
)

// StandalonePrefix is prepended to a type name to form its catalog key.
const StandalonePrefix = "Standalone/"

// Entry is one selectable item. Key and Value are identifiers (usually
// equal); Text is for display.
type Entry struct {
	Key   string `json:"key"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// NewEntry returns an entry whose key, value and text are all s.
func NewEntry(s string) Entry {
	return Entry{Key: s, Value: s, Text: s}
}

// Catalog is an insertion-ordered list of entries with unique keys. The
// first entry added for a key wins.
type Catalog struct {
	entries []Entry
	seen    map[string]struct{}
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{seen: make(map[string]struct{})}
}

// Add appends e unless an entry with the same key already exists. It
// reports whether e was added.
func (c *Catalog) Add(e Entry) bool {
	if _, ok := c.seen[e.Key]; ok {
		return false
	}
	c.seen[e.Key] = struct{}{}
	c.entries = append(c.entries, e)
	return true
}

// Contains reports whether key has been added.
func (c *Catalog) Contains(key string) bool {
	_, ok := c.seen[key]
	return ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in insertion order. It is never nil.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
