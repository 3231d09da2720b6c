package catalog

import "fmt"

// Descriptor aggregates the three catalogs produced by a run.
type Descriptor struct {
	Version  *Catalog
	Filename *Catalog
	Type     *Catalog
}

// NewDescriptor returns a descriptor whose type catalog is seeded with the
// ALL, ALL_SORTED and ALL_FUNCTIONS sentinels.
func NewDescriptor() *Descriptor {
	d := &Descriptor{
		Version:  New(),
		Filename: New(),
		Type:     New(),
	}
	for _, s := range []string{TypeAll, TypeAllSorted, TypeAllFunctions} {
		d.Type.Add(NewEntry(s))
	}
	return d
}

// AddFilename records a binary file name.
func (d *Descriptor) AddFilename(name string) bool {
	return d.Filename.Add(NewEntry(name))
}

// AddVersion records a system/arch bucket. The key is
// "{system}/{arch}/System32" and the text "{system}-{arch} ({version})".
func (d *Descriptor) AddVersion(system, arch, version string) bool {
	key := fmt.Sprintf("%s/%s/System32", system, arch)
	return d.Version.Add(Entry{
		Key:   key,
		Value: key,
		Text:  fmt.Sprintf("%s-%s (%s)", system, arch, version),
	})
}

// AddType records a type name discovered in a symbol file.
func (d *Descriptor) AddType(name string) bool {
	key := StandalonePrefix + name
	return d.Type.Add(Entry{Key: key, Value: key, Text: name})
}

// Document is the serialisable form of a Descriptor. Fields are declared in
// key order so encoding yields sorted keys.
type Document struct {
	Filename []Entry `json:"filename"`
	Type     []Entry `json:"type"`
	Version  []Entry `json:"version"`
}

// Document flattens the catalogs in their accumulated order.
func (d *Descriptor) Document() Document {
	return Document{
		Filename: d.Filename.Entries(),
		Type:     d.Type.Entries(),
		Version:  d.Version.Entries(),
	}
}
