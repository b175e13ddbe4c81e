package midi

import "fmt"

// NoteDuration is the written value of a note, from thirty-second to whole.
type NoteDuration int

const (
	ThirtySecond NoteDuration = iota
	Sixteenth
	Triplet
	Eighth
	DottedEighth
	Quarter
	DottedQuarter
	Half
	DottedHalf
	Whole
)

var durationNames = [...]string{
	"ThirtySecond", "Sixteenth", "Triplet", "Eighth", "DottedEighth",
	"Quarter", "DottedQuarter", "Half", "DottedHalf", "Whole",
}

func (d NoteDuration) String() string {
	if d < ThirtySecond || d > Whole {
		return fmt.Sprintf("NoteDuration(%d)", int(d))
	}
	return durationNames[d]
}

// Dotted reports whether the duration is one of the dotted values.
func (d NoteDuration) Dotted() bool {
	return d == DottedEighth || d == DottedQuarter || d == DottedHalf
}

/*
TimeSignature holds the meter and tempo of a song. Quarter is the number of
pulses per quarter note, Tempo the microseconds per quarter note and Measure
the number of pulses per measure.
*/
type TimeSignature struct {
	Numerator   int
	Denominator int
	Quarter     int
	Measure     int
	Tempo       int
}

func NewTimeSignature(numerator, denominator, quarter, tempo int) (TimeSignature, error) {
	if numerator <= 0 || denominator <= 0 || quarter <= 0 {
		return TimeSignature{}, formatErrorf(0, "invalid time signature %d/%d, quarter %d", numerator, denominator, quarter)
	}
	// Files with 5 beats per measure are almost always mislabeled 4/4.
	if numerator == 5 {
		numerator = 4
	}
	var beat int
	if denominator < 4 {
		beat = quarter * 2
	} else {
		beat = quarter / (denominator / 4)
	}
	// Tiny quarters with short beats round down to an empty measure.
	if beat <= 0 {
		return TimeSignature{}, formatErrorf(0, "time signature %d/%d has no room in a quarter of %d pulses", numerator, denominator, quarter)
	}
	return TimeSignature{
		Numerator:   numerator,
		Denominator: denominator,
		Quarter:     quarter,
		Measure:     numerator * beat,
		Tempo:       tempo,
	}, nil
}

// GetMeasure returns the zero based measure containing time.
func (t TimeSignature) GetMeasure(time int) int {
	return time / t.Measure
}

/*
GetNoteDuration maps a duration in pulses onto the nearest written value.
In 32nds of a whole note the thresholds are:

	whole 28, dotted half 20, half 14, dotted quarter 10, quarter 7,
	dotted eighth 5, eighth 3 (6/64), triplet 5/64, sixteenth 3/64
*/
func (t TimeSignature) GetNoteDuration(duration int) NoteDuration {
	whole := t.Quarter * 4
	switch {
	case duration >= 28*whole/32:
		return Whole
	case duration >= 20*whole/32:
		return DottedHalf
	case duration >= 14*whole/32:
		return Half
	case duration >= 10*whole/32:
		return DottedQuarter
	case duration >= 7*whole/32:
		return Quarter
	case duration >= 5*whole/32:
		return DottedEighth
	case duration >= 6*whole/64:
		return Eighth
	case duration >= 5*whole/64:
		return Triplet
	case duration >= 3*whole/64:
		return Sixteenth
	default:
		return ThirtySecond
	}
}

// StemDuration drops the dot: the stem of a dotted note looks like the
// undotted one.
func StemDuration(d NoteDuration) NoteDuration {
	switch d {
	case DottedHalf:
		return Half
	case DottedQuarter:
		return Quarter
	case DottedEighth:
		return Eighth
	}
	return d
}

// DurationToTime is the length in pulses of a written value.
func (t TimeSignature) DurationToTime(d NoteDuration) int {
	eighth := t.Quarter / 2
	sixteenth := eighth / 2
	switch d {
	case Whole:
		return t.Quarter * 4
	case DottedHalf:
		return t.Quarter * 3
	case Half:
		return t.Quarter * 2
	case DottedQuarter:
		return 3 * eighth
	case Quarter:
		return t.Quarter
	case DottedEighth:
		return 3 * sixteenth
	case Eighth:
		return eighth
	case Triplet:
		return t.Quarter / 3
	case Sixteenth:
		return sixteenth
	case ThirtySecond:
		return sixteenth / 2
	}
	return 0
}

func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d, quarter %d pulses, tempo %d us", t.Numerator, t.Denominator, t.Quarter, t.Tempo)
}
