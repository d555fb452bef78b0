// Package client is the headless dashboard client: it mirrors server-side bin
// state over the realtime channel and derives the view state a rendering
// adapter consumes.
package client

import (
	"sort"

	"smartbin"
)

// Mirror is a client-local, ordered-by-binId copy of bin state. It is owned
// by exactly one Client and is not safe for concurrent use on its own.
type Mirror struct {
	bins []smartbin.Bin
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// ReplaceAll swaps the entire mirror for the given list (initial_data
// semantics: full replace, not merge).
func (m *Mirror) ReplaceAll(bins []smartbin.Bin) {
	m.bins = make([]smartbin.Bin, len(bins))
	copy(m.bins, bins)
	sort.Slice(m.bins, func(i, j int) bool { return m.bins[i].BinID < m.bins[j].BinID })
}

// Apply merges one change event into the mirror and reports whether the
// mirror changed. Update events for unknown bins are ignored: an update
// never creates a record.
func (m *Mirror) Apply(ev smartbin.ChangeEvent) bool {
	switch ev.Type {
	case smartbin.EventInitialData:
		m.ReplaceAll(ev.Bins)
		return true

	case smartbin.EventBinAdded:
		if ev.Bin == nil {
			return false
		}
		if _, ok := m.indexOf(ev.Bin.BinID); ok {
			return false // idempotent: already present
		}
		m.insert(*ev.Bin)
		return true

	case smartbin.EventBinUpdated:
		if ev.Bin == nil {
			return false
		}
		i, ok := m.indexOf(ev.Bin.BinID)
		if !ok {
			return false
		}
		m.bins[i] = *ev.Bin
		return true

	case smartbin.EventFillLevelUpdate:
		if ev.FillLevel == nil {
			return false
		}
		i, ok := m.indexOf(ev.BinID)
		if !ok {
			return false
		}
		m.bins[i].FillLevel = smartbin.ClampLevel(*ev.FillLevel)
		return true

	case smartbin.EventBinDeleted:
		i, ok := m.indexOf(ev.BinID)
		if !ok {
			return false
		}
		m.bins = append(m.bins[:i], m.bins[i+1:]...)
		return true
	}
	return false
}

// Bins returns a copy of the mirrored records, ordered by binId.
func (m *Mirror) Bins() []smartbin.Bin {
	out := make([]smartbin.Bin, len(m.bins))
	copy(out, m.bins)
	return out
}

// Get returns the mirrored record for binID, if present.
func (m *Mirror) Get(binID int) (smartbin.Bin, bool) {
	if i, ok := m.indexOf(binID); ok {
		return m.bins[i], true
	}
	return smartbin.Bin{}, false
}

// Len reports the number of mirrored bins.
func (m *Mirror) Len() int { return len(m.bins) }

func (m *Mirror) indexOf(binID int) (int, bool) {
	i := sort.Search(len(m.bins), func(i int) bool { return m.bins[i].BinID >= binID })
	if i < len(m.bins) && m.bins[i].BinID == binID {
		return i, true
	}
	return 0, false
}

func (m *Mirror) insert(b smartbin.Bin) {
	i := sort.Search(len(m.bins), func(i int) bool { return m.bins[i].BinID >= b.BinID })
	m.bins = append(m.bins, smartbin.Bin{})
	copy(m.bins[i+1:], m.bins[i:])
	m.bins[i] = b
}
