package sheet

import (
	"github.com/pkg/errors"
	"github.com/unscatty/PianoViaR-sub000/midi"
)

// ErrChordOrder is returned when the notes of a chord are not sorted by
// number.
var ErrChordOrder = errors.New("sheet: chord notes not in increasing order")

// NoteNames selects the text shown next to each note head.
type NoteNames int

const (
	NoteNameNone NoteNames = iota
	NoteNameLetter
	NoteNameFixedDoReMi
	NoteNameMovableDoReMi
	NoteNameFixedNumber
	NoteNameMovableNumber
)

var (
	doReMi  = [12]string{"Do", "Di", "Re", "Ri", "Mi", "Fa", "Fi", "So", "Si", "La", "Li", "Ti"}
	numbers = [12]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
)

// NoteData is one note of a chord as drawn.
type NoteData struct {
	Number    int
	WhiteNote WhiteNote
	Duration  midi.NoteDuration
	// LeftSide is false for a note that touches the note below it and is
	// drawn to the other side of the stem.
	LeftSide bool
	Accid    Accid
}

/*
ChordSymbol is a group of notes starting together. Notes are sorted from
lowest to highest. When the notes have different durations the chord has
two stems: Stem1 down for the lower notes, Stem2 up for the rest. Whole notes
have no stem.
*/
type ChordSymbol struct {
	Clef        Clef
	Notes       []NoteData
	Accids      []*AccidSymbol
	Stem1       *Stem
	Stem2       *Stem
	HasTwoStems bool
	// Names holds the text for each note when note names are shown.
	Names []string

	start int
	end   int
	width int
	d     Dimensions
}

func NewChordSymbol(notes []midi.Note, key *KeySignature, time midi.TimeSignature, clef Clef, names NoteNames, d Dimensions) (*ChordSymbol, error) {
	if len(notes) == 0 {
		return nil, errors.New("sheet: empty chord")
	}
	if time.Measure <= 0 {
		return nil, ErrMeasure
	}
	c := &ChordSymbol{Clef: clef, start: notes[0].StartTime, d: d}
	for i, n := range notes {
		if i > 0 && n.Number < notes[i-1].Number {
			return nil, errors.Wrapf(ErrChordOrder, "at time %d", c.start)
		}
		if n.EndTime() > c.end {
			c.end = n.EndTime()
		}
	}

	c.Notes = createNoteData(notes, key, time)
	for _, n := range c.Notes {
		if n.Accid != AccidNone {
			c.Accids = append(c.Accids, NewAccidSymbol(n.Accid, n.WhiteNote, clef, d))
		}
	}
	c.createStems()
	if names != NoteNameNone {
		c.Names = make([]string, len(c.Notes))
		for i, n := range c.Notes {
			c.Names[i] = noteName(names, n, key)
		}
	}
	c.width = c.MinWidth()
	return c, nil
}

func createNoteData(notes []midi.Note, key *KeySignature, time midi.TimeSignature) []NoteData {
	data := make([]NoteData, len(notes))
	for i, n := range notes {
		data[i] = NoteData{
			Number:    n.Number,
			Accid:     key.GetAccidental(n.Number, n.StartTime/time.Measure),
			WhiteNote: key.GetWhiteNote(n.Number),
			Duration:  time.GetNoteDuration(n.Duration),
			LeftSide:  true,
		}
		// A note one step above the previous one swaps sides with it.
		if i > 0 && data[i].WhiteNote.Dist(data[i-1].WhiteNote) == 1 {
			data[i].LeftSide = !data[i-1].LeftSide
		}
	}
	return data
}

func (c *ChordSymbol) createStems() {
	last := len(c.Notes) - 1
	dur1 := c.Notes[0].Duration
	dur2, change := dur1, -1
	for i, n := range c.Notes {
		dur2 = n.Duration
		if dur1 != dur2 {
			change = i
			break
		}
	}

	if dur1 != dur2 {
		c.HasTwoStems = true
		c.Stem1 = NewStem(c.Notes[0].WhiteNote, c.Notes[change-1].WhiteNote, dur1, StemDown, notesOverlap(c.Notes[:change]))
		c.Stem2 = NewStem(c.Notes[change].WhiteNote, c.Notes[last].WhiteNote, dur2, StemUp, notesOverlap(c.Notes[change:]))
	} else {
		direction := stemDirection(c.Notes[0].WhiteNote, c.Notes[last].WhiteNote, c.Clef)
		c.Stem1 = NewStem(c.Notes[0].WhiteNote, c.Notes[last].WhiteNote, dur1, direction, notesOverlap(c.Notes))
	}
	if dur1 == midi.Whole {
		c.Stem1 = nil
	}
	if dur2 == midi.Whole {
		c.Stem2 = nil
	}
}

// stemDirection points stems away from the middle line of the staff.
func stemDirection(bottom, top WhiteNote, clef Clef) StemDirection {
	middle := clef.Middle()
	if middle.Dist(bottom)+middle.Dist(top) >= 0 {
		return StemUp
	}
	return StemDown
}

func notesOverlap(notes []NoteData) bool {
	for _, n := range notes {
		if !n.LeftSide {
			return true
		}
	}
	return false
}

func (c *ChordSymbol) StartTime() int     { return c.start }
func (c *ChordSymbol) EndTime() int       { return c.end }
func (c *ChordSymbol) Width() int         { return c.width }
func (c *ChordSymbol) SetWidth(width int) { c.width = width }
func (c *ChordSymbol) Kind() SymbolKind   { return KindChord }

// Stem is the stem used for beaming: the one with the shorter duration when
// the chord has two.
func (c *ChordSymbol) Stem() *Stem {
	switch {
	case c.Stem1 == nil:
		return c.Stem2
	case c.Stem2 == nil:
		return c.Stem1
	case c.Stem1.Duration < c.Stem2.Duration:
		return c.Stem1
	}
	return c.Stem2
}

/*
MinWidth is two note heads plus room for the accidentals. Accidentals less
than an octave apart are drawn side by side; further apart they stack.
*/
func (c *ChordSymbol) MinWidth() int {
	result := 2*c.d.NoteHeight + c.d.NoteHeight*3/4
	if len(c.Accids) > 0 {
		result += c.Accids[0].MinWidth()
		for i := 1; i < len(c.Accids); i++ {
			if c.Accids[i].Note.Dist(c.Accids[i-1].Note) < 6 {
				result += c.Accids[i].MinWidth()
			}
		}
	}
	if c.Names != nil {
		result += c.d.LetterWidth + 2
	}
	return result
}

func (c *ChordSymbol) AboveStaff() int {
	top := c.Notes[len(c.Notes)-1].WhiteNote
	for _, s := range []*Stem{c.Stem1, c.Stem2} {
		if s != nil {
			top = MaxNote(top, s.End)
		}
	}
	result := 0
	if dist := top.Dist(c.Clef.Top()) * c.d.NoteHeight / 2; dist > 0 {
		result = dist
	}
	for _, a := range c.Accids {
		if a.AboveStaff() > result {
			result = a.AboveStaff()
		}
	}
	return result
}

func (c *ChordSymbol) BelowStaff() int {
	bottom := c.Notes[0].WhiteNote
	for _, s := range []*Stem{c.Stem1, c.Stem2} {
		if s != nil {
			bottom = MinNote(bottom, s.End)
		}
	}
	result := 0
	if dist := c.Clef.Bottom().Dist(bottom) * c.d.NoteHeight / 2; dist > 0 {
		result = dist
	}
	for _, a := range c.Accids {
		if a.BelowStaff() > result {
			result = a.BelowStaff()
		}
	}
	return result
}

func noteName(names NoteNames, n NoteData, key *KeySignature) string {
	fixed := n.Number % 12
	movable := (n.Number - key.Tonic() + 12) % 12
	switch names {
	case NoteNameLetter:
		return letterName(n)
	case NoteNameFixedDoReMi:
		return doReMi[fixed]
	case NoteNameMovableDoReMi:
		return doReMi[movable]
	case NoteNameFixedNumber:
		return numbers[fixed]
	case NoteNameMovableNumber:
		return numbers[movable]
	}
	return ""
}

func letterName(n NoteData) string {
	name := letterNames[n.WhiteNote.Letter]
	switch n.Number - n.WhiteNote.Number() {
	case 1:
		name += "#"
	case -1:
		name += "b"
	}
	return name
}
