package sheet

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Accid is an accidental drawn before a note or in a key signature.
type Accid int

const (
	AccidNone Accid = iota
	Sharp
	Flat
	Natural
)

func (a Accid) String() string {
	switch a {
	case Sharp:
		return "Sharp"
	case Flat:
		return "Flat"
	case Natural:
		return "Natural"
	}
	return "None"
}

// delta is the pitch change of an alteration. AccidNone means no alteration.
func (a Accid) delta() int {
	switch a {
	case Sharp:
		return 1
	case Flat:
		return -1
	}
	return 0
}

var (
	sharpOrder = [7]int{LetterF, LetterC, LetterG, LetterD, LetterA, LetterE, LetterB}
	flatOrder  = [7]int{LetterB, LetterE, LetterA, LetterD, LetterG, LetterC, LetterF}

	trebleSharps = [7]WhiteNote{{LetterF, 5}, {LetterC, 5}, {LetterG, 5}, {LetterD, 5}, {LetterA, 5}, {LetterE, 5}, {LetterB, 5}}
	bassSharps   = [7]WhiteNote{{LetterF, 3}, {LetterC, 3}, {LetterG, 3}, {LetterD, 3}, {LetterA, 3}, {LetterE, 3}, {LetterB, 3}}
	trebleFlats  = [7]WhiteNote{{LetterB, 5}, {LetterE, 5}, {LetterA, 5}, {LetterD, 5}, {LetterG, 4}, {LetterC, 5}, {LetterF, 4}}
	bassFlats    = [7]WhiteNote{{LetterB, 3}, {LetterE, 3}, {LetterA, 3}, {LetterD, 3}, {LetterG, 2}, {LetterC, 3}, {LetterF, 2}}

	sharpKeyNames = [8]string{"C", "G", "D", "A", "E", "B", "F#", "C#"}
	flatKeyNames  = [8]string{"C", "F", "Bb", "Eb", "Ab", "Db", "Gb", "Cb"}
)

type spelling struct {
	letter int
	alter  Accid
}

/*
KeySignature is one of the 15 major keys, from 7 flats to 7 sharps. It spells
MIDI numbers as a white note plus accidental. Accidentals drawn within a
measure are remembered per (letter, octave) until the measure changes, so a
note repeated later in the same measure is not marked again.
*/
type KeySignature struct {
	NumSharps int
	NumFlats  int

	keyAlter [7]Accid
	spell    [12]spelling
	measure  int
	state    map[WhiteNote]Accid
}

func NewKeySignature(numSharps, numFlats int) (*KeySignature, error) {
	if numSharps < 0 || numFlats < 0 || numSharps > 7 || numFlats > 7 || (numSharps > 0 && numFlats > 0) {
		return nil, errors.Errorf("invalid key signature: %d sharps, %d flats", numSharps, numFlats)
	}
	k := &KeySignature{NumSharps: numSharps, NumFlats: numFlats, measure: -1}
	for i := 0; i < numSharps; i++ {
		k.keyAlter[sharpOrder[i]] = Sharp
	}
	for i := 0; i < numFlats; i++ {
		k.keyAlter[flatOrder[i]] = Flat
	}
	k.buildSpelling()
	return k, nil
}

func mustKey(numSharps, numFlats int) *KeySignature {
	k, err := NewKeySignature(numSharps, numFlats)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *KeySignature) buildSpelling() {
	var filled [12]bool
	for letter, alter := range k.keyAlter {
		scale := (letterScale[letter] + alter.delta() + 12) % 12
		k.spell[scale] = spelling{letter, alter}
		filled[scale] = true
	}
	for scale := 0; scale < 12; scale++ {
		if filled[scale] {
			continue
		}
		switch {
		case !isBlackKey(scale):
			k.spell[scale] = spelling{letterAt(scale), AccidNone}
		case k.NumFlats > 0 && scale != 9:
			k.spell[scale] = spelling{letterAt((scale + 1) % 12), Flat}
		case k.NumFlats > 0:
			k.spell[scale] = spelling{LetterF, Sharp}
		case scale == 1:
			k.spell[scale] = spelling{LetterB, Flat}
		default:
			k.spell[scale] = spelling{letterAt(scale - 1), Sharp}
		}
	}
}

// letterAt returns the letter whose natural note has the given scale.
func letterAt(scale int) int {
	for letter, s := range letterScale {
		if s == scale {
			return letter
		}
	}
	return LetterA
}

// Reset forgets the accidentals of the current measure.
func (k *KeySignature) Reset() {
	k.state = nil
	k.measure = -1
}

// GetWhiteNote returns the staff position of a MIDI number in this key.
func (k *KeySignature) GetWhiteNote(number int) WhiteNote {
	sp := k.spell[noteScale(number)]
	return WhiteNote{Letter: sp.letter, Octave: noteOctave(number - sp.alter.delta())}
}

/*
GetAccidental returns the accidental to draw before number in the given
measure, or AccidNone when the key signature or an earlier accidental in the
same measure already implies it.
*/
func (k *KeySignature) GetAccidental(number, measure int) Accid {
	if measure != k.measure {
		k.state = nil
		k.measure = measure
	}
	sp := k.spell[noteScale(number)]
	w := k.GetWhiteNote(number)
	current, ok := k.state[w]
	if !ok {
		current = k.keyAlter[w.Letter]
	}
	if current == sp.alter {
		return AccidNone
	}
	if k.state == nil {
		k.state = map[WhiteNote]Accid{}
	}
	k.state[w] = sp.alter
	if sp.alter == AccidNone {
		return Natural
	}
	return sp.alter
}

// GetSymbols returns the accidentals of the key signature for a clef.
func (k *KeySignature) GetSymbols(clef Clef, d Dimensions) []*AccidSymbol {
	var notes []WhiteNote
	accid := Sharp
	if k.NumSharps > 0 {
		notes = trebleSharps[:k.NumSharps]
		if clef == Bass {
			notes = bassSharps[:k.NumSharps]
		}
	} else if k.NumFlats > 0 {
		accid = Flat
		notes = trebleFlats[:k.NumFlats]
		if clef == Bass {
			notes = bassFlats[:k.NumFlats]
		}
	}
	symbols := make([]*AccidSymbol, len(notes))
	for i, n := range notes {
		symbols[i] = NewAccidSymbol(accid, n, clef, d)
	}
	return symbols
}

func (k *KeySignature) inScale(scale int) bool {
	sp := k.spell[scale]
	return sp.alter == k.keyAlter[sp.letter]
}

// Tonic is the pitch class of the key's major tonic, with C at 0.
func (k *KeySignature) Tonic() int {
	if k.NumFlats > 0 {
		return 5 * k.NumFlats % 12
	}
	return 7 * k.NumSharps % 12
}

func (k *KeySignature) String() string {
	if k.NumFlats > 0 {
		return flatKeyNames[k.NumFlats] + " major"
	}
	return sharpKeyNames[k.NumSharps] + " major"
}

// Equal reports whether both keys have the same signature.
func (k *KeySignature) Equal(other *KeySignature) bool {
	return other != nil && k.NumSharps == other.NumSharps && k.NumFlats == other.NumFlats
}

/*
Guess picks the key whose scale leaves the fewest of the given notes out.
Sharp keys are tried first from C, then flat keys; ties go to the earlier
key.
*/
func Guess(notes []int) *KeySignature {
	var counts [12]int
	for _, n := range notes {
		counts[noteScale(n)]++
	}
	var best *KeySignature
	bestMisses := 0
	try := func(k *KeySignature) {
		misses := 0
		for scale, c := range counts {
			if !k.inScale(scale) {
				misses += c
			}
		}
		if best == nil || misses < bestMisses {
			best, bestMisses = k, misses
		}
	}
	for sharps := 0; sharps <= 7; sharps++ {
		try(mustKey(sharps, 0))
	}
	for flats := 1; flats <= 7; flats++ {
		try(mustKey(0, flats))
	}
	return best
}

// Spell names a MIDI number in this key with its scientific octave, like
// "F#4" or "Bb3".
func (k *KeySignature) Spell(number int) string {
	sp := k.spell[noteScale(number)]
	w := k.GetWhiteNote(number)
	name := letterNames[w.Letter]
	switch sp.alter {
	case Sharp:
		name += "#"
	case Flat:
		name += "b"
	}
	return fmt.Sprintf("%s%d", name, w.Number()/12-1)
}

// SpellChord spells numbers from lowest to highest.
func (k *KeySignature) SpellChord(numbers []int) []string {
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	names := make([]string, len(sorted))
	for i, n := range sorted {
		names[i] = k.Spell(n)
	}
	return names
}
