package faction

import "sort"

// LimitEntry caps how many entities with Code a faction may hold at once.
type LimitEntry struct {
	Code    string `yaml:"code"`
	Max     int    `yaml:"max"`
	Current int    `yaml:"-"`
}

// LimitLedger counts entities per configured code. It never refuses an
// increment: spawners must call HasReachedLimit before creating an entity.
// Codes without an entry are unlimited and are not counted.
type LimitLedger struct {
	entries map[string]*LimitEntry
}

func NewLimitLedger(entries []LimitEntry) *LimitLedger {
	l := &LimitLedger{entries: make(map[string]*LimitEntry, len(entries))}
	for _, e := range entries {
		l.Set(e.Code, e.Max)
	}
	return l
}

// HasReachedLimit is true iff code has an entry and its count is at or above max.
func (l *LimitLedger) HasReachedLimit(code string) bool {
	e, ok := l.entries[code]
	return ok && e.Current >= e.Max
}

// Increment adds delta to the count for code. No entry, no effect.
func (l *LimitLedger) Increment(code string, delta int) {
	if e, ok := l.entries[code]; ok {
		e.Current += delta
	}
}

// Set adds an entry for code or changes its max, keeping the current count.
func (l *LimitLedger) Set(code string, max int) {
	if e, ok := l.entries[code]; ok {
		e.Max = max
		return
	}
	l.entries[code] = &LimitEntry{Code: code, Max: max}
}

// Entry returns a copy of the entry for code.
func (l *LimitLedger) Entry(code string) (LimitEntry, bool) {
	e, ok := l.entries[code]
	if !ok {
		return LimitEntry{}, false
	}
	return *e, true
}

// Entries returns copies of all entries ordered by code.
func (l *LimitLedger) Entries() []LimitEntry {
	out := make([]LimitEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
