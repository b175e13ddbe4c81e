package midi

import "sort"

// Note is a single sounded note, built from a NoteOn/NoteOff pair. Times are
// in pulses.
type Note struct {
	StartTime int
	Channel   int
	Number    int
	Duration  int
}

func (n Note) EndTime() int {
	return n.StartTime + n.Duration
}

func sortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].StartTime != notes[j].StartTime {
			return notes[i].StartTime < notes[j].StartTime
		}
		return notes[i].Number < notes[j].Number
	})
}
