package midi

// DefaultCombineInterval is the window, in milliseconds, within which note
// start times are merged into one chord.
const DefaultCombineInterval = 40

/*
Options select and transform the tracks of a File. Tracks, Mute and
Instruments are indexed like File.Tracks (the tracks with notes), not like the
raw track chunks.
*/
type Options struct {
	Tracks                []bool
	Mute                  []bool
	Instruments           []int
	UseDefaultInstruments bool
	TwoStaffs             bool
	ShiftTime             int
	Transpose             int
	// Time overrides the file's time signature for layout when set.
	Time            *TimeSignature
	PauseTime       int
	Tempo           int
	CombineInterval int
}

// NewOptions shows every track except percussion, with the file's own
// instruments and tempo.
func NewOptions(f *File) Options {
	n := len(f.Tracks)
	opts := Options{
		Tracks:                make([]bool, n),
		Mute:                  make([]bool, n),
		Instruments:           make([]int, n),
		UseDefaultInstruments: true,
		TwoStaffs:             n == 1,
		Tempo:                 f.Time.Tempo,
		CombineInterval:       DefaultCombineInterval,
	}
	for i, t := range f.Tracks {
		opts.Tracks[i] = t.Instrument != PercussionInstrument
		opts.Instruments[i] = t.Instrument
	}
	return opts
}

// ChangeMidiNotes returns the tracks to display: selected, rounded so near
// simultaneous notes form chords, optionally combined into two staffs, then
// shifted and transposed. f is left untouched.
func (f *File) ChangeMidiNotes(opts Options) ([]*Track, error) {
	var tracks []*Track
	for i, t := range f.Tracks {
		if i < len(opts.Tracks) && opts.Tracks[i] {
			tracks = append(tracks, t.Clone())
		}
	}
	timesig := f.Time
	if opts.Time != nil {
		timesig = *opts.Time
	}
	tracks, err := RoundStartTimes(tracks, opts.CombineInterval, f.Time)
	if err != nil {
		return nil, err
	}
	tracks = RoundDurations(tracks, timesig.Quarter)
	if opts.TwoStaffs {
		tracks = CombineToTwoTracks(tracks, f.Time.Measure)
	}
	if opts.ShiftTime != 0 {
		tracks = ShiftTime(tracks, opts.ShiftTime)
	}
	if opts.Transpose != 0 {
		tracks = Transpose(tracks, opts.Transpose)
	}
	return tracks, nil
}

/*
ApplyOptionsToEvents returns a copy of the raw events with the options
applied, for writing out a new file. Muted tracks are dropped. When the file
was split by channel, options are applied per channel instead.
*/
func (f *File) ApplyOptionsToEvents(opts Options) [][]Event {
	if f.TrackPerChannel {
		return f.ApplyOptionsPerChannel(opts)
	}
	numTracks := len(f.Events)
	instruments := make([]int, numTracks)
	keep := make([]bool, numTracks)
	for i := range keep {
		keep[i] = true
	}
	for i, t := range f.Tracks {
		chunk := t.Number
		if i < len(opts.Instruments) {
			instruments[chunk] = opts.Instruments[i]
		}
		if i < len(opts.Mute) && opts.Mute[i] {
			keep[chunk] = false
		}
	}

	events := withTempo(cloneEvents(f.Events), opts.Tempo)
	for tracknum := range events {
		for i := range events[tracknum] {
			e := &events[tracknum][i]
			e.NoteNumber = transposeNumber(e.NoteNumber, opts.Transpose)
			if !opts.UseDefaultInstruments {
				e.Instrument = byte(instruments[tracknum])
			}
			if opts.Tempo > 0 {
				e.Tempo = opts.Tempo
			}
		}
	}
	if opts.PauseTime != 0 {
		events = StartAtPauseTime(events, opts.PauseTime)
	}

	var result [][]Event
	for tracknum, list := range events {
		if keep[tracknum] {
			result = append(result, list)
		}
	}
	return result
}

// ApplyOptionsPerChannel is ApplyOptionsToEvents for files whose tracks are
// channels of one chunk. Muted channels are silenced by zeroing velocities.
func (f *File) ApplyOptionsPerChannel(opts Options) [][]Event {
	var instruments [16]int
	var keep [16]bool
	for i := range keep {
		keep[i] = true
	}
	for i, t := range f.Tracks {
		if len(t.Notes) == 0 {
			continue
		}
		channel := t.Notes[0].Channel & lowOrderMask
		if i < len(opts.Instruments) {
			instruments[channel] = opts.Instruments[i]
		}
		if i < len(opts.Mute) && opts.Mute[i] {
			keep[channel] = false
		}
	}

	events := withTempo(cloneEvents(f.Events), opts.Tempo)
	for tracknum := range events {
		for i := range events[tracknum] {
			e := &events[tracknum][i]
			e.NoteNumber = transposeNumber(e.NoteNumber, opts.Transpose)
			if !keep[e.Channel&lowOrderMask] {
				e.Velocity = 0
			}
			if !opts.UseDefaultInstruments {
				e.Instrument = byte(instruments[e.Channel&lowOrderMask])
			}
			if opts.Tempo > 0 {
				e.Tempo = opts.Tempo
			}
		}
	}
	if opts.PauseTime != 0 {
		events = StartAtPauseTime(events, opts.PauseTime)
	}
	return events
}

func withTempo(events [][]Event, tempo int) [][]Event {
	if tempo <= 0 {
		return events
	}
	for i := range events {
		events[i] = append([]Event{NewTempoEvent(tempo)}, events[i]...)
	}
	return events
}

func transposeNumber(number byte, amount int) byte {
	n := int(number) + amount
	if n < 0 {
		n = 0
	}
	if n > 127 {
		n = 127
	}
	return byte(n)
}

/*
StartAtPauseTime drops the notes before pauseTime so playback starts there.
Other events before the pause (tempo, program changes) are kept with a zero
delta. The first event at or after the pause gets a delta measured from the
pause point rather than a zero delta, so a note 80 pulses past the pause still
starts 80 pulses into playback. Later events pass through.
*/
func StartAtPauseTime(lists [][]Event, pauseTime int) [][]Event {
	result := make([][]Event, len(lists))
	for tracknum, list := range lists {
		result[tracknum] = make([]Event, 0, len(list))
		foundAfterPause := false
		for _, e := range list {
			switch {
			case e.StartTime < pauseTime:
				if e.IsNote() {
					continue
				}
				e.DeltaTime = 0
			case !foundAfterPause:
				e.DeltaTime = e.StartTime - pauseTime
				foundAfterPause = true
			}
			result[tracknum] = append(result[tracknum], e)
		}
	}
	return result
}
