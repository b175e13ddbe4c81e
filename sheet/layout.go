package sheet

import "github.com/unscatty/PianoViaR-sub000/midi"

// horizontalWidth bounds a staff when scrolling horizontally.
const horizontalWidth = 2000000

// createChords groups notes with the same start time into chords. The clef
// of each chord is the one of its measure.
func createChords(notes []midi.Note, key *KeySignature, time midi.TimeSignature, clefs ClefSource, names NoteNames, d Dimensions) ([]*ChordSymbol, error) {
	var chords []*ChordSymbol
	for i := 0; i < len(notes); {
		start := notes[i].StartTime
		j := i + 1
		for j < len(notes) && notes[j].StartTime == start {
			j++
		}
		chord, err := NewChordSymbol(notes[i:j], key, time, clefs.GetClef(start), names, d)
		if err != nil {
			return nil, err
		}
		chords = append(chords, chord)
		i = j
	}
	return chords, nil
}

func createSymbols(chords []*ChordSymbol, clefs ClefSource, time midi.TimeSignature, lastStart int, d Dimensions) []MusicSymbol {
	symbols := addBars(chords, time, lastStart, d)
	symbols = addRests(symbols, time, d)
	return addClefChanges(symbols, clefs, d)
}

// addBars puts the time signature first and a bar at every measure start,
// up to and past the last start time of the song.
func addBars(chords []*ChordSymbol, time midi.TimeSignature, lastStart int, d Dimensions) []MusicSymbol {
	symbols := []MusicSymbol{NewTimeSigSymbol(time.Numerator, time.Denominator, d)}
	if time.Measure <= 0 {
		for _, c := range chords {
			symbols = append(symbols, c)
		}
		return symbols
	}
	measureTime := 0
	for i := 0; i < len(chords); {
		if measureTime <= chords[i].StartTime() {
			symbols = append(symbols, NewBarSymbol(measureTime, d))
			measureTime += time.Measure
		} else {
			symbols = append(symbols, chords[i])
			i++
		}
	}
	for measureTime < lastStart {
		symbols = append(symbols, NewBarSymbol(measureTime, d))
		measureTime += time.Measure
	}
	return append(symbols, NewBarSymbol(measureTime, d))
}

// addRests fills the gaps between the end of each symbol and the start of
// the next.
func addRests(symbols []MusicSymbol, time midi.TimeSignature, d Dimensions) []MusicSymbol {
	prev := 0
	result := make([]MusicSymbol, 0, len(symbols)*2)
	for _, s := range symbols {
		start := s.StartTime()
		for _, r := range getRests(time, prev, start, d) {
			result = append(result, r)
		}
		result = append(result, s)
		end := start
		if c, ok := s.(*ChordSymbol); ok {
			end = c.EndTime()
		}
		if end > prev {
			prev = end
		}
	}
	return result
}

// getRests returns the rests for a gap: one for plain values, two for dotted
// ones, none for gaps too short to show.
func getRests(time midi.TimeSignature, start, end int, d Dimensions) []*RestSymbol {
	if end-start < 0 {
		return nil
	}
	dur := time.GetNoteDuration(end - start)
	switch dur {
	case midi.Whole, midi.Half, midi.Quarter, midi.Eighth:
		return []*RestSymbol{NewRestSymbol(start, dur, d)}
	case midi.DottedHalf:
		return []*RestSymbol{NewRestSymbol(start, midi.Half, d), NewRestSymbol(start+time.Quarter*2, midi.Quarter, d)}
	case midi.DottedQuarter:
		return []*RestSymbol{NewRestSymbol(start, midi.Quarter, d), NewRestSymbol(start+time.Quarter, midi.Eighth, d)}
	case midi.DottedEighth:
		return []*RestSymbol{NewRestSymbol(start, midi.Eighth, d), NewRestSymbol(start+time.Quarter/2, midi.Sixteenth, d)}
	}
	return nil
}

// addClefChanges puts a small clef just before a bar whose measure changes
// clef.
func addClefChanges(symbols []MusicSymbol, clefs ClefSource, d Dimensions) []MusicSymbol {
	result := make([]MusicSymbol, 0, len(symbols))
	prev := clefs.GetClef(0)
	for _, s := range symbols {
		if _, ok := s.(*BarSymbol); ok {
			clef := clefs.GetClef(s.StartTime())
			if clef != prev {
				result = append(result, NewClefSymbol(clef, s.StartTime()-1, true, d))
			}
			prev = clef
		}
		result = append(result, s)
	}
	return result
}

/*
alignSymbols makes every track have a symbol at every start time, adding
blanks where needed, then widens the first symbol at each start time so all
tracks line up.
*/
func alignSymbols(tracks [][]MusicSymbol, widths *SymbolWidths, showMeasures bool, d Dimensions) {
	if showMeasures {
		for _, symbols := range tracks {
			for _, s := range symbols {
				if _, ok := s.(*BarSymbol); ok {
					s.SetWidth(s.Width() + d.NoteWidth)
				}
			}
		}
	}

	for track, symbols := range tracks {
		result := make([]MusicSymbol, 0, len(symbols))
		i := 0
		for _, start := range widths.StartTimes() {
			for i < len(symbols) && isBar(symbols[i]) && symbols[i].StartTime() <= start {
				result = append(result, symbols[i])
				i++
			}
			if i < len(symbols) && symbols[i].StartTime() == start {
				for i < len(symbols) && symbols[i].StartTime() == start {
					result = append(result, symbols[i])
					i++
				}
			} else {
				result = append(result, NewBlankSymbol(start, 0))
			}
		}
		// Bars after the last start time.
		result = append(result, symbols[i:]...)

		for j := 0; j < len(result); {
			if isBar(result[j]) {
				j++
				continue
			}
			start := result[j].StartTime()
			result[j].SetWidth(result[j].Width() + widths.ExtraWidth(track, start))
			for j < len(result) && result[j].StartTime() == start {
				j++
			}
		}
		tracks[track] = result
	}
}

func isBar(s MusicSymbol) bool {
	_, ok := s.(*BarSymbol)
	return ok
}

/*
createStaffsForTrack packs symbols into staffs no wider than the page. When a
staff would end inside a measure, it is cut back to the end of the previous
measure, unless the staff holds less than one measure.
*/
func createStaffsForTrack(symbols []MusicSymbol, measureLen int, key *KeySignature, opts Options, track, totalTracks int, d Dimensions) []*Staff {
	keySigWidth := keySignatureWidth(key, d)
	maxWidth := horizontalWidth
	if opts.ScrollVert {
		maxWidth = d.PageWidth
	}

	var staffs []*Staff
	for start := 0; start < len(symbols); {
		end := start
		width := keySigWidth
		for end < len(symbols) && width+symbols[end].Width() < maxWidth {
			width += symbols[end].Width()
			end++
		}
		end--
		if end < start {
			// A single symbol wider than the page gets a staff of its own.
			end = start
		}

		switch {
		case end == len(symbols)-1:
		case symbols[start].StartTime()/measureLen == symbols[end].StartTime()/measureLen:
		default:
			endMeasure := symbols[end+1].StartTime() / measureLen
			for end > start && symbols[end].StartTime()/measureLen == endMeasure {
				end--
			}
		}

		staffs = append(staffs, newStaff(symbols[start:end+1], key, opts, track, totalTracks, measureLen, d))
		start = end + 1
	}
	return staffs
}

// createStaffs builds the staffs of every track and interleaves them: the
// first staff of each track, then the second of each, and so on.
func createStaffs(tracks [][]MusicSymbol, key *KeySignature, opts Options, measureLen int, d Dimensions) []*Staff {
	perTrack := make([][]*Staff, len(tracks))
	most := 0
	for track, symbols := range tracks {
		perTrack[track] = createStaffsForTrack(symbols, measureLen, key, opts, track, len(tracks), d)
		list := perTrack[track]
		for i := 0; i < len(list)-1; i++ {
			list[i].end = list[i+1].start
		}
		if len(list) > most {
			most = len(list)
		}
	}

	var result []*Staff
	for i := 0; i < most; i++ {
		for _, list := range perTrack {
			if i < len(list) {
				result = append(result, list[i])
			}
		}
	}
	return result
}

func getLyrics(tracks []*midi.Track, d Dimensions) [][]*LyricSymbol {
	found := false
	result := make([][]*LyricSymbol, len(tracks))
	for i, t := range tracks {
		for _, e := range t.Lyrics {
			result[i] = append(result[i], NewLyricSymbol(e.StartTime, string(e.Value), d))
			found = true
		}
	}
	if !found {
		return nil
	}
	return result
}
