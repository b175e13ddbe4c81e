package sheet

import "github.com/unscatty/PianoViaR-sub000/midi"

/*
CanCreateBeam reports whether the chords can be joined by one beam. All must
be in the same measure with the same non-dotted stem duration of an eighth
or less, except that a dotted eighth may be followed by a sixteenth. Runs of
6, 4 and 3 chords are only beamed in meters where they make up a beat, and
must start on one. With startQuarter set, pairs must start on a quarter.
*/
func CanCreateBeam(chords []*ChordSymbol, time midi.TimeSignature, startQuarter bool) bool {
	numChords := len(chords)
	if numChords == 0 || time.Measure <= 0 {
		return false
	}
	firstStem, lastStem := chords[0].Stem(), chords[numChords-1].Stem()
	if firstStem == nil || lastStem == nil {
		return false
	}
	measure := chords[0].StartTime() / time.Measure
	dur := firstStem.Duration
	dotted8to16 := numChords == 2 && dur == midi.DottedEighth && lastStem.Duration == midi.Sixteenth

	switch dur {
	case midi.Whole, midi.Half, midi.DottedHalf, midi.Quarter, midi.DottedQuarter:
		return false
	case midi.DottedEighth:
		if !dotted8to16 {
			return false
		}
	}

	onBeat := func(beat int) bool {
		return chords[0].StartTime()%beat <= time.Quarter/6
	}
	switch numChords {
	case 6:
		if dur != midi.Eighth {
			return false
		}
		n, d := time.Numerator, time.Denominator
		if !(n == 3 && d == 4) && !(n == 6 && d == 8) && !(n == 6 && d == 4) {
			return false
		}
		// In 6/4 the group starts on the first or fourth quarter.
		if n == 6 && d == 4 && !onBeat(time.Quarter*3) {
			return false
		}
	case 4:
		if time.Numerator == 3 && time.Denominator == 8 {
			return false
		}
		evenMeter := time.Numerator == 2 || time.Numerator == 4 || time.Numerator == 8
		if !evenMeter && dur != midi.Sixteenth {
			return false
		}
		beat := time.Quarter
		switch dur {
		case midi.Eighth:
			beat = 2 * time.Quarter
		case midi.ThirtySecond:
			beat = time.Quarter / 2
		}
		if !onBeat(beat) {
			return false
		}
	case 3:
		twelveEight := time.Numerator == 12 && time.Denominator == 8
		if dur != midi.Triplet && !(dur == midi.Eighth && twelveEight) {
			return false
		}
		beat := time.Quarter
		if twelveEight {
			beat = time.Quarter / 2 * 3
		}
		if !onBeat(beat) {
			return false
		}
	case 2:
		if startQuarter && !onBeat(time.Quarter) {
			return false
		}
	}

	for _, c := range chords {
		s := c.Stem()
		if c.StartTime()/time.Measure != measure || s == nil {
			return false
		}
		if s.Duration != dur && !dotted8to16 {
			return false
		}
		if s.IsBeam() {
			return false
		}
	}

	// Chords with two stems fix the direction; they must agree.
	hasTwoStems := false
	direction := StemUp
	for _, c := range chords {
		if !c.HasTwoStems {
			continue
		}
		if hasTwoStems && c.Stem().Direction != direction {
			return false
		}
		hasTwoStems = true
		direction = c.Stem().Direction
	}
	if !hasTwoStems {
		direction = stemDirection(beamNote(firstStem), beamNote(lastStem), chords[0].Clef)
	}

	// Too far apart for a sensible slope.
	if direction == StemUp {
		return abs(firstStem.Top.Dist(lastStem.Top)) < 11
	}
	return abs(firstStem.Bottom.Dist(lastStem.Bottom)) < 11
}

// beamNote is the note at the far end of a stem from its end.
func beamNote(s *Stem) WhiteNote {
	if s.Direction == StemUp {
		return s.Top
	}
	return s.Bottom
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

/*
CreateBeam joins the chords: every stem gets one direction, the stem ends are
adjusted so the beam is straight or slopes evenly, and the first stem is
paired with the last, spacing pixels apart.
*/
func CreateBeam(chords []*ChordSymbol, spacing int) {
	firstStem, lastStem := chords[0].Stem(), chords[len(chords)-1].Stem()

	direction, found := StemUp, false
	for _, c := range chords {
		if c.HasTwoStems {
			direction, found = c.Stem().Direction, true
			break
		}
	}
	if !found {
		direction = stemDirection(beamNote(firstStem), beamNote(lastStem), chords[0].Clef)
	}
	for _, c := range chords {
		c.Stem().SetDirection(direction)
	}

	if len(chords) == 2 {
		bringStemsCloser(chords)
	} else {
		lineUpStemEnds(chords)
	}

	firstStem.SetPair(lastStem, spacing)
	for _, c := range chords[1:] {
		c.Stem().Receiver = true
	}
}

// bringStemsCloser moves the shorter of two stems half way to the other.
// A dotted eighth beamed to a sixteenth starts two steps longer.
func bringStemsCloser(chords []*ChordSymbol) {
	first, last := chords[0].Stem(), chords[1].Stem()
	if first.Duration == midi.DottedEighth && last.Duration == midi.Sixteenth {
		if first.Direction == StemUp {
			first.End = first.End.Add(2)
		} else {
			first.End = first.End.Add(-2)
		}
	}

	distance := abs(first.End.Dist(last.End))
	if first.Direction == StemUp {
		if first.End.Dist(last.End) > 0 {
			last.End = last.End.Add(distance / 2)
		} else {
			first.End = first.End.Add(distance / 2)
		}
	} else {
		if first.End.Dist(last.End) < 0 {
			last.End = last.End.Add(-distance / 2)
		} else {
			first.End = first.End.Add(-distance / 2)
		}
	}
}

/*
lineUpStemEnds finds the most extreme stem end of the group. If the first
stem has it the beam slopes away from the first chord, if the last stem has
it the beam slopes towards the last; otherwise the beam is flat. Ties go to
the later stem. Middle stems all end together.
*/
func lineUpStemEnds(chords []*ChordSymbol) {
	last := len(chords) - 1
	first, middle, lastStem := chords[0].Stem(), chords[1].Stem(), chords[last].Stem()

	extreme, at := first.End, 0
	for i, c := range chords {
		end := c.Stem().End
		if (first.Direction == StemUp && end.Dist(extreme) >= 0) ||
			(first.Direction == StemDown && end.Dist(extreme) <= 0) {
			extreme, at = end, i
		}
	}

	if first.Direction == StemUp {
		switch {
		case at == 0 && extreme.Dist(lastStem.End) >= 2:
			first.End, middle.End, lastStem.End = extreme, extreme.Add(-1), extreme.Add(-2)
		case at == last && extreme.Dist(first.End) >= 2:
			first.End, middle.End, lastStem.End = extreme.Add(-2), extreme.Add(-1), extreme
		default:
			first.End, middle.End, lastStem.End = extreme, extreme, extreme
		}
	} else {
		switch {
		case at == 0 && lastStem.End.Dist(extreme) >= 2:
			middle.End, lastStem.End = extreme.Add(1), extreme.Add(2)
		case at == last && first.End.Dist(extreme) >= 2:
			middle.End, first.End = extreme.Add(1), extreme.Add(2)
		default:
			first.End, middle.End, lastStem.End = extreme, extreme, extreme
		}
	}

	for _, c := range chords[1:last] {
		c.Stem().End = middle.End
	}
}

/*
findConsecutiveChords looks from start for len(indexes) chords with stems
that follow each other with only blank symbols between them. It fills indexes
and returns the horizontal distance from the first chord to the last.
*/
func findConsecutiveChords(symbols []MusicSymbol, start int, indexes []int) (int, bool) {
	i := start
	numChords := len(indexes)
	for {
		distance := 0
		for i < len(symbols)-numChords {
			if c, ok := symbols[i].(*ChordSymbol); ok && c.Stem() != nil {
				break
			}
			i++
		}
		if i >= len(symbols)-numChords {
			return 0, false
		}
		indexes[0] = i

		found := true
		for n := 1; n < numChords; n++ {
			i++
			remaining := numChords - 1 - n
			for i < len(symbols)-remaining {
				if _, ok := symbols[i].(*BlankSymbol); !ok {
					break
				}
				distance += symbols[i].Width()
				i++
			}
			if i >= len(symbols)-remaining {
				return 0, false
			}
			if _, ok := symbols[i].(*ChordSymbol); !ok {
				found = false
				break
			}
			indexes[n] = i
			distance += symbols[i].Width()
		}
		if found {
			return distance, true
		}
	}
}

// createBeamedChords beams every run of numChords chords it can, in every
// track. After a beam the search goes on after its last chord, after a
// failure from the chord following the first.
func createBeamedChords(tracks [][]MusicSymbol, time midi.TimeSignature, numChords int, startBeat bool) {
	indexes := make([]int, numChords)
	chords := make([]*ChordSymbol, numChords)
	for _, symbols := range tracks {
		start := 0
		for {
			distance, found := findConsecutiveChords(symbols, start, indexes)
			if !found {
				break
			}
			for i, index := range indexes {
				chords[i] = symbols[index].(*ChordSymbol)
			}
			if CanCreateBeam(chords, time, startBeat) {
				CreateBeam(chords, distance)
				start = indexes[numChords-1] + 1
			} else {
				start = indexes[0] + 1
			}
		}
	}
}

// createAllBeamedChords tries groups of 6 (in 3/4, 6/8 and 6/4), then 3, 4,
// pairs on a beat and finally any pairs.
func createAllBeamedChords(tracks [][]MusicSymbol, time midi.TimeSignature) {
	n, d := time.Numerator, time.Denominator
	if (n == 3 && d == 4) || (n == 6 && d == 8) || (n == 6 && d == 4) {
		createBeamedChords(tracks, time, 6, true)
	}
	createBeamedChords(tracks, time, 3, true)
	createBeamedChords(tracks, time, 4, true)
	createBeamedChords(tracks, time, 2, true)
	createBeamedChords(tracks, time, 2, false)
}
