package sheet

import "fmt"

// Letters of a WhiteNote. Octaves start at A, so C4 is middle C and A5 is
// the A above it.
const (
	LetterA = iota
	LetterB
	LetterC
	LetterD
	LetterE
	LetterF
	LetterG
)

var letterNames = [...]string{"A", "B", "C", "D", "E", "F", "G"}

// Offset of each letter from A, in semitones.
var letterScale = [...]int{0, 2, 3, 5, 7, 8, 10}

// WhiteNote is a line or space position on the staff, without accidental.
type WhiteNote struct {
	Letter int
	Octave int
}

var (
	TopTreble    = WhiteNote{LetterE, 5}
	BottomTreble = WhiteNote{LetterF, 4}
	TopBass      = WhiteNote{LetterG, 3}
	BottomBass   = WhiteNote{LetterA, 3}
	MiddleC      = WhiteNote{LetterC, 4}
)

// Dist is the number of staff positions from other up to w.
func (w WhiteNote) Dist(other WhiteNote) int {
	return (w.Octave-other.Octave)*7 + (w.Letter - other.Letter)
}

// Add moves w by amount staff positions.
func (w WhiteNote) Add(amount int) WhiteNote {
	num := w.Octave*7 + w.Letter + amount
	if num < 0 {
		num = 0
	}
	return WhiteNote{Letter: num % 7, Octave: num / 7}
}

// Number is the MIDI note number of w with no accidental.
func (w WhiteNote) Number() int {
	return noteNumber(letterScale[w.Letter], w.Octave)
}

func (w WhiteNote) String() string {
	return fmt.Sprintf("%s%d", letterNames[w.Letter], w.Octave)
}

// MaxNote returns the higher of x and y, or y when they are equal.
func MaxNote(x, y WhiteNote) WhiteNote {
	if x.Dist(y) > 0 {
		return x
	}
	return y
}

// MinNote returns the lower of x and y, or y when they are equal.
func MinNote(x, y WhiteNote) WhiteNote {
	if x.Dist(y) < 0 {
		return x
	}
	return y
}

// noteScale is the pitch class of a MIDI number counted from A.
func noteScale(number int) int {
	return (number + 3) % 12
}

func noteOctave(number int) int {
	return (number+3)/12 - 1
}

func noteNumber(scale, octave int) int {
	return 9 + scale + octave*12
}

func isBlackKey(scale int) bool {
	switch scale {
	case 1, 4, 6, 9, 11:
		return true
	}
	return false
}

type Clef int

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	if c == Bass {
		return "Bass"
	}
	return "Treble"
}

// Top is the note on the top line of the staff.
func (c Clef) Top() WhiteNote {
	if c == Treble {
		return TopTreble
	}
	return TopBass
}

// Bottom is the note on the bottom line of the staff.
func (c Clef) Bottom() WhiteNote {
	if c == Treble {
		return BottomTreble
	}
	return BottomBass
}

// Middle is the note on the middle line, which decides stem direction.
func (c Clef) Middle() WhiteNote {
	if c == Treble {
		return WhiteNote{LetterB, 5}
	}
	return WhiteNote{LetterD, 3}
}
