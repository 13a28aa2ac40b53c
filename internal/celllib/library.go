package celllib

import "errors"

// CellLibrary owns a set of uniquely named cells. It is filled once while a
// library loads and only read afterwards; entries are never replaced or
// removed, so concurrent lookups after loading need no locking.
type CellLibrary struct {
	entries map[string]*CellLibraryEntry
	order   []string
}

// NewCellLibrary returns an empty library.
func NewCellLibrary() *CellLibrary {
	return &CellLibrary{entries: make(map[string]*CellLibraryEntry)}
}

// AddEntry registers entry under its name. Re-adding a name is an error and
// leaves the existing entry in place.
func (l *CellLibrary) AddEntry(entry *CellLibraryEntry) error {
	if entry == nil {
		return errors.New("cannot add a nil cell library entry")
	}
	if _, ok := l.entries[entry.name]; ok {
		return &DuplicateNameError{Kind: "cell", Name: entry.name}
	}
	l.entries[entry.name] = entry
	l.order = append(l.order, entry.name)
	return nil
}

// Entry looks up a cell by name. The returned entry stays owned by the library.
func (l *CellLibrary) Entry(name string) (*CellLibraryEntry, error) {
	entry, ok := l.entries[name]
	if !ok {
		return nil, &NotFoundError{What: "cell", Name: name}
	}
	return entry, nil
}

// Names returns the cell names in insertion order.
func (l *CellLibrary) Names() []string {
	return append([]string(nil), l.order...)
}

// Entries returns the cells in insertion order.
func (l *CellLibrary) Entries() []*CellLibraryEntry {
	out := make([]*CellLibraryEntry, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.entries[name])
	}
	return out
}

// Len returns the number of entries.
func (l *CellLibrary) Len() int { return len(l.order) }
