package bibtex

// Index is a read-only lookup structure over one bibliography text.
//
// Entries keeps source order. The DOI, title, and key maps hold the last
// entry seen for each normalized key; entries with neither a DOI nor a title
// are reachable only through Entries.
type Index struct {
	// Entries lists every entry in source order.
	Entries []Entry

	byDOI   map[string]int
	byTitle map[string]int
	byKey   map[string]int
	// titles records normalized titles in order of first appearance.
	titles []string
}

// BuildIndex splits text and indexes the entries by normalized DOI, title,
// and citation key. It is a pure function of text.
func BuildIndex(text string) *Index {
	return NewIndex(Split(text))
}

// NewIndex indexes already split entries.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		Entries: entries,
		byDOI:   make(map[string]int),
		byTitle: make(map[string]int),
		byKey:   make(map[string]int),
	}

	for i, e := range entries {
		if doi := NormalizeDOI(e.Field("doi")); doi != "" {
			idx.byDOI[doi] = i
		}
		if title := TitleKey(e.Field("title")); title != "" {
			if _, seen := idx.byTitle[title]; !seen {
				idx.titles = append(idx.titles, title)
			}
			idx.byTitle[title] = i
		}
		if key := e.Key(); key != "" {
			idx.byKey[key] = i
		}
	}

	return idx
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.Entries)
}

// ByDOI returns the entry for a DOI in any accepted spelling.
func (idx *Index) ByDOI(doi string) (Entry, bool) {
	return idx.lookup(idx.byDOI, NormalizeDOI(doi))
}

// ByTitle returns the entry whose normalized title equals title's.
func (idx *Index) ByTitle(title string) (Entry, bool) {
	return idx.lookup(idx.byTitle, TitleKey(title))
}

// ByNormalizedTitle looks up an already normalized title.
func (idx *Index) ByNormalizedTitle(normalized string) (Entry, bool) {
	return idx.lookup(idx.byTitle, normalized)
}

// ByKey returns the entry with the given citation key.
func (idx *Index) ByKey(key string) (Entry, bool) {
	return idx.lookup(idx.byKey, key)
}

// HasEntry reports whether the index already holds an entry with the DOI or,
// when doi is empty, the citation key.
func (idx *Index) HasEntry(key, doi string) bool {
	if doi != "" {
		if _, ok := idx.ByDOI(doi); ok {
			return true
		}
	}
	_, ok := idx.ByKey(key)
	return ok
}

// Titles returns the normalized titles in order of first appearance.
func (idx *Index) Titles() []string {
	out := make([]string, len(idx.titles))
	copy(out, idx.titles)
	return out
}

func (idx *Index) lookup(m map[string]int, key string) (Entry, bool) {
	if idx == nil || key == "" {
		return Entry{}, false
	}
	i, ok := m[key]
	if !ok {
		return Entry{}, false
	}
	return idx.Entries[i], true
}
