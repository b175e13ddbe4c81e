package sheet

import "github.com/unscatty/PianoViaR-sub000/midi"

// ClefSource decides the clef in effect at a time.
type ClefSource interface {
	GetClef(startTime int) Clef
}

// ClefFactory builds the ClefSource of one track.
type ClefFactory func(notes []midi.Note, measureLen int) ClefSource

/*
ClefMeasures picks a clef for every measure of a track from the average note
of the measure: treble from F4 up, bass from G3 down, and in between the clef
most of the track uses. Empty measures keep the previous clef.
*/
type ClefMeasures struct {
	clefs   []Clef
	measure int
}

func NewClefMeasures(notes []midi.Note, measureLen int) ClefSource {
	cm := &ClefMeasures{measure: measureLen}
	main := mainClef(notes)
	if measureLen <= 0 {
		cm.clefs = []Clef{main}
		return cm
	}
	clef := main
	next := measureLen
	pos := 0
	for pos < len(notes) {
		sum, count := 0, 0
		for pos < len(notes) && notes[pos].StartTime < next {
			sum += notes[pos].Number
			count++
			pos++
		}
		if count == 0 {
			count = 1
		}
		switch avg := sum / count; {
		case avg == 0:
		case avg >= BottomTreble.Number():
			clef = Treble
		case avg <= TopBass.Number():
			clef = Bass
		default:
			clef = main
		}
		cm.clefs = append(cm.clefs, clef)
		next += measureLen
	}
	cm.clefs = append(cm.clefs, clef)
	return cm
}

// GetClef returns the clef of the measure containing startTime, or of the
// last measure past the end.
func (cm *ClefMeasures) GetClef(startTime int) Clef {
	if cm.measure <= 0 {
		return cm.clefs[0]
	}
	m := startTime / cm.measure
	if m >= len(cm.clefs) {
		m = len(cm.clefs) - 1
	}
	if m < 0 {
		m = 0
	}
	return cm.clefs[m]
}

func mainClef(notes []midi.Note) Clef {
	if len(notes) == 0 {
		return Treble
	}
	total := 0
	for _, n := range notes {
		total += n.Number
	}
	if total/len(notes) >= MiddleC.Number() {
		return Treble
	}
	return Bass
}
