package midi

import "sort"

/*
RoundStartTimes merges note start times that lie within millisec of each
other, so near simultaneous notes display as one chord. Sorted start times are
merged left to right onto the earlier time, so a chain of close times collapses
onto its first. Every note is then snapped to the earliest merged time within
the interval. The input tracks are not modified.
*/
func RoundStartTimes(tracks []*Track, millisec int, time TimeSignature) ([]*Track, error) {
	tracks = cloneTracks(tracks)
	var starttimes []int
	for _, t := range tracks {
		for _, n := range t.Notes {
			starttimes = append(starttimes, n.StartTime)
		}
	}
	sort.Ints(starttimes)

	interval := 0
	if time.Tempo > 0 {
		interval = time.Quarter * millisec * 1000 / time.Tempo
	}
	for i := 0; i < len(starttimes)-1; i++ {
		if starttimes[i+1]-starttimes[i] <= interval {
			starttimes[i+1] = starttimes[i]
		}
	}

	if err := checkStartTimes(tracks); err != nil {
		return nil, err
	}

	for _, t := range tracks {
		i := 0
		for j := range t.Notes {
			n := &t.Notes[j]
			for i < len(starttimes) && n.StartTime-interval > starttimes[i] {
				i++
			}
			if i < len(starttimes) && n.StartTime > starttimes[i] && n.StartTime-starttimes[i] <= interval {
				n.StartTime = starttimes[i]
			}
		}
		sortNotes(t.Notes)
	}
	return tracks, nil
}

/*
RoundDurations lengthens notes up to the next note with a different start
time, to the largest of a quarter, eighth, triplet or sixteenth that fits.
Notes never get shorter. A note that starts right where an equally long
previous note ended keeps its duration, so such pairs stay pairs.
*/
func RoundDurations(tracks []*Track, quarter int) []*Track {
	tracks = cloneTracks(tracks)
	for _, t := range tracks {
		notes := t.Notes
		prev := -1
		for i := 0; i < len(notes)-1; i++ {
			note1 := &notes[i]
			if prev < 0 {
				prev = i
			}
			note2 := *note1
			for j := i + 1; j < len(notes); j++ {
				note2 = notes[j]
				if note1.StartTime < note2.StartTime {
					break
				}
			}
			maxDuration := note2.StartTime - note1.StartTime

			dur := 0
			switch {
			case quarter <= maxDuration:
				dur = quarter
			case quarter/2 <= maxDuration:
				dur = quarter / 2
			case quarter/3 <= maxDuration:
				dur = quarter / 3
			case quarter/4 <= maxDuration:
				dur = quarter / 4
			}
			if dur < note1.Duration {
				dur = note1.Duration
			}
			p := notes[prev]
			if p.StartTime+p.Duration == note1.StartTime && p.Duration == note1.Duration {
				dur = note1.Duration
			}
			note1.Duration = dur
			if notes[i+1].StartTime != note1.StartTime {
				prev = i
			}
		}
	}
	return tracks
}

// findHighLowNotes widens high and low with the notes sounding between
// starttime and endtime, looking at most one measure ahead.
func findHighLowNotes(notes []Note, measureLen, startIndex, starttime, endtime int, high, low *int) {
	if starttime+measureLen < endtime {
		endtime = starttime + measureLen
	}
	for i := startIndex; i < len(notes) && notes[i].StartTime < endtime; i++ {
		if notes[i].EndTime() < starttime {
			continue
		}
		if notes[i].StartTime+measureLen < starttime {
			continue
		}
		if *high < notes[i].Number {
			*high = notes[i].Number
		}
		if *low > notes[i].Number {
			*low = notes[i].Number
		}
	}
}

// findExactHighLowNotes widens high and low with the notes starting exactly
// at starttime.
func findExactHighLowNotes(notes []Note, startIndex, starttime int, high, low *int) {
	i := startIndex
	for i < len(notes) && notes[i].StartTime < starttime {
		i++
	}
	for ; i < len(notes) && notes[i].StartTime == starttime; i++ {
		if *high < notes[i].Number {
			*high = notes[i].Number
		}
		if *low > notes[i].Number {
			*low = notes[i].Number
		}
	}
}

/*
SplitTrack splits a track into a top (right hand) and bottom (left hand)
track. For each note, in order:
  - if it is more than an octave from the high or low note starting at the
    same time, it goes with the closer one;
  - else if it is more than an octave from the high or low note sounding
    within a measure, it goes with the closer one;
  - else if the exact high and low are more than an octave apart, closer wins;
  - else if the windowed high and low are more than an octave apart, closer
    wins;
  - else the last high/low pair that was more than an octave apart decides.
*/
func SplitTrack(track *Track, measureLen int) (top, bottom *Track) {
	notes := track.Notes
	top, bottom = NewTrack(1), NewTrack(2)
	if len(notes) == 0 {
		return top, bottom
	}
	top.Instrument, bottom.Instrument = track.Instrument, track.Instrument

	prevHigh := 76 // E5, top of the treble staff
	prevLow := 45  // A3, bottom of the bass staff
	startIndex := 0

	for _, note := range notes {
		number := note.Number
		high, low, highExact, lowExact := number, number, number, number

		for notes[startIndex].EndTime() < note.StartTime {
			startIndex++
		}
		findHighLowNotes(notes, measureLen, startIndex, note.StartTime, note.EndTime(), &high, &low)
		findExactHighLowNotes(notes, startIndex, note.StartTime, &highExact, &lowExact)

		var toTop bool
		switch {
		case highExact-number > 12 || number-lowExact > 12:
			toTop = highExact-number <= number-lowExact
		case high-number > 12 || number-low > 12:
			toTop = high-number <= number-low
		case highExact-lowExact > 12:
			toTop = highExact-number <= number-lowExact
		case high-low > 12:
			toTop = high-number <= number-low
		default:
			toTop = prevHigh-number <= number-prevLow
		}
		if toTop {
			top.AddNote(note)
		} else {
			bottom.AddNote(note)
		}

		if high-low > 12 {
			prevHigh, prevLow = high, low
		}
	}
	sortNotes(top.Notes)
	sortNotes(bottom.Notes)
	return top, bottom
}

/*
CombineToSingleTrack merges tracks by start time, then note number. Notes
with the same start time and number are kept once, with the longest
duration.
*/
func CombineToSingleTrack(tracks []*Track) *Track {
	result := NewTrack(1)
	if len(tracks) == 0 {
		return result
	}
	result.Instrument = tracks[0].Instrument
	if len(tracks) == 1 {
		result.Notes = append(result.Notes, tracks[0].Notes...)
		return result
	}

	index := make([]int, len(tracks))
	for {
		lowest := -1
		var lowestNote Note
		for tracknum, t := range tracks {
			if index[tracknum] >= len(t.Notes) {
				continue
			}
			n := t.Notes[index[tracknum]]
			if lowest < 0 ||
				n.StartTime < lowestNote.StartTime ||
				(n.StartTime == lowestNote.StartTime && n.Number < lowestNote.Number) {
				lowest, lowestNote = tracknum, n
			}
		}
		if lowest < 0 {
			break
		}
		index[lowest]++

		last := len(result.Notes) - 1
		if last >= 0 && result.Notes[last].StartTime == lowestNote.StartTime && result.Notes[last].Number == lowestNote.Number {
			if lowestNote.Duration > result.Notes[last].Duration {
				result.Notes[last].Duration = lowestNote.Duration
			}
			continue
		}
		result.AddNote(lowestNote)
	}
	return result
}

// CombineToTwoTracks merges all tracks, then splits the result into a top
// and bottom staff. All lyrics move to the top track.
func CombineToTwoTracks(tracks []*Track, measureLen int) []*Track {
	single := CombineToSingleTrack(tracks)
	top, bottom := SplitTrack(single, measureLen)

	var lyrics []Event
	for _, t := range tracks {
		for _, l := range t.Lyrics {
			lyrics = append(lyrics, l.Clone())
		}
	}
	if len(lyrics) > 0 {
		sortLyrics(lyrics)
		top.Lyrics = lyrics
	}
	return []*Track{top, bottom}
}

// ShiftTime moves every note by amount pulses.
func ShiftTime(tracks []*Track, amount int) []*Track {
	tracks = cloneTracks(tracks)
	for _, t := range tracks {
		for i := range t.Notes {
			t.Notes[i].StartTime += amount
		}
	}
	return tracks
}

// Transpose moves every note by amount semitones, clamped to 0..127.
func Transpose(tracks []*Track, amount int) []*Track {
	tracks = cloneTracks(tracks)
	for _, t := range tracks {
		for i := range t.Notes {
			t.Notes[i].Number = int(transposeNumber(byte(t.Notes[i].Number), amount))
		}
	}
	return tracks
}
