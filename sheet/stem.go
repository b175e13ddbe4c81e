package sheet

import "github.com/unscatty/PianoViaR-sub000/midi"

type StemDirection int

const (
	StemUp StemDirection = iota
	StemDown
)

func (s StemDirection) String() string {
	if s == StemDown {
		return "down"
	}
	return "up"
}

type StemSide int

const (
	LeftSide StemSide = iota
	RightSide
)

func (s StemSide) String() string {
	if s == RightSide {
		return "right"
	}
	return "left"
}

/*
Stem is the vertical line of a chord, from Top or Bottom out to End. A beamed
group has its first stem Paired with the last one, WidthToPair pixels away;
every other stem of the group is a Receiver and draws no flag.
*/
type Stem struct {
	Duration     midi.NoteDuration
	Direction    StemDirection
	Top          WhiteNote
	Bottom       WhiteNote
	End          WhiteNote
	NotesOverlap bool
	Side         StemSide
	Pair         *Stem
	WidthToPair  int
	Receiver     bool
}

func NewStem(bottom, top WhiteNote, duration midi.NoteDuration, direction StemDirection, overlap bool) *Stem {
	s := &Stem{Duration: duration, Top: top, Bottom: bottom, NotesOverlap: overlap}
	s.SetDirection(direction)
	return s
}

// CalculateEnd returns the default end of the stem: an octave past the
// furthest note, longer for flagged sixteenths and thirty-seconds.
func (s *Stem) CalculateEnd() WhiteNote {
	sign, w := 1, s.Top
	if s.Direction == StemDown {
		sign, w = -1, s.Bottom
	}
	w = w.Add(sign * 6)
	switch s.Duration {
	case midi.Sixteenth:
		w = w.Add(sign * 2)
	case midi.ThirtySecond:
		w = w.Add(sign * 4)
	}
	return w
}

// SetDirection points the stem up or down and resets its end.
func (s *Stem) SetDirection(direction StemDirection) {
	s.Direction = direction
	if direction == StemUp || s.NotesOverlap {
		s.Side = RightSide
	} else {
		s.Side = LeftSide
	}
	s.End = s.CalculateEnd()
}

func (s *Stem) SetPair(pair *Stem, widthToPair int) {
	s.Pair = pair
	s.WidthToPair = widthToPair
}

// IsBeam reports whether the stem already belongs to a beamed group.
func (s *Stem) IsBeam() bool {
	return s.Receiver || s.Pair != nil
}
