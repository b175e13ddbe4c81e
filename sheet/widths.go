package sheet

import "sort"

/*
SymbolWidths collects, per start time, the width each track needs and the
largest of them. Bars are left out: every track has them at the same times.
*/
type SymbolWidths struct {
	widths     []map[int]int
	maxWidths  map[int]int
	startTimes []int
}

func NewSymbolWidths(tracks [][]MusicSymbol, lyrics [][]*LyricSymbol) *SymbolWidths {
	sw := &SymbolWidths{maxWidths: map[int]int{}}
	for _, symbols := range tracks {
		sw.widths = append(sw.widths, trackWidths(symbols))
	}
	for _, widths := range sw.widths {
		for start, w := range widths {
			if cur, ok := sw.maxWidths[start]; !ok || cur < w {
				sw.maxWidths[start] = w
			}
		}
	}
	for _, track := range lyrics {
		for _, l := range track {
			if w, ok := sw.maxWidths[l.StartTime]; !ok || w < l.MinWidth() {
				sw.maxWidths[l.StartTime] = l.MinWidth()
			}
		}
	}
	for start := range sw.maxWidths {
		sw.startTimes = append(sw.startTimes, start)
	}
	sort.Ints(sw.startTimes)
	return sw
}

func trackWidths(symbols []MusicSymbol) map[int]int {
	widths := map[int]int{}
	for _, s := range symbols {
		if _, ok := s.(*BarSymbol); ok {
			continue
		}
		widths[s.StartTime()] += s.MinWidth()
	}
	return widths
}

// ExtraWidth is how much wider the track's symbols at start must be to
// match the widest track.
func (sw *SymbolWidths) ExtraWidth(track, start int) int {
	w, ok := sw.widths[track][start]
	if !ok {
		return sw.maxWidths[start]
	}
	return sw.maxWidths[start] - w
}

// StartTimes are the start times of all tracks, sorted.
func (sw *SymbolWidths) StartTimes() []int {
	return sw.startTimes
}
