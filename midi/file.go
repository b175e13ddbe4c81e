package midi

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultTempo = 500000
	headerLength = 6
)

/*
File is a parsed Standard MIDI File. Events keeps the raw event lists of every
track chunk, used when writing the song back out. Tracks only holds the tracks
that contain notes (or lyrics). When the file had a single track using several
channels, Tracks holds one track per channel and TrackPerChannel is set.
*/
type File struct {
	FileName        string
	TrackMode       int
	Events          [][]Event
	Tracks          []*Track
	Quarter         int
	Time            TimeSignature
	TotalPulses     int
	TrackPerChannel bool
	// Truncated is set when some track ended early and was recovered.
	Truncated bool
}

// ReadFile parses the MIDI file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	f, err := Parse(data, filepath.Base(path))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing midi file %s", path)
	}
	return f, nil
}

// Parse builds a File from raw bytes.
func Parse(data []byte, name string) (*File, error) {
	f := &File{FileName: name}
	r := NewReader(data)

	id, err := r.ReadAscii(4)
	if err != nil {
		return nil, err
	}
	if id != "MThd" {
		return nil, formatErrorf(0, "doesn't start with MThd")
	}
	length, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	if length != headerLength {
		return nil, formatErrorf(4, "bad MThd header: expected a header length of %d but found %d", headerLength, length)
	}
	if f.TrackMode, err = r.ReadShort(); err != nil {
		return nil, err
	}
	numTracks, err := r.ReadShort()
	if err != nil {
		return nil, err
	}
	if f.Quarter, err = r.ReadShort(); err != nil {
		return nil, err
	}

	f.Events = make([][]Event, 0, numTracks)
	for tracknum := 0; tracknum < numTracks; tracknum++ {
		events, truncated, err := readTrack(r)
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", tracknum)
		}
		if truncated {
			f.Truncated = true
			log.WithFields(log.Fields{"file": name, "track": tracknum, "events": len(events)}).
				Warn("track is truncated, keeping the events read so far")
		}
		f.Events = append(f.Events, events)
		track := newTrackFromEvents(events, tracknum)
		if len(track.Notes) > 0 || len(track.Lyrics) > 0 {
			f.Tracks = append(f.Tracks, track)
		}
		// A truncated track ran into the end of the data.
		if truncated {
			break
		}
	}

	for _, track := range f.Tracks {
		if end := track.EndTime(); end > f.TotalPulses {
			f.TotalPulses = end
		}
	}

	if len(f.Tracks) == 1 && hasMultipleChannels(f.Tracks[0]) {
		f.Tracks = SplitChannels(f.Tracks[0], f.Events[f.Tracks[0].Number])
		f.TrackPerChannel = true
	}

	if err := checkStartTimes(f.Tracks); err != nil {
		return nil, err
	}

	f.Time, err = deriveTimeSignature(f.Events, f.Quarter)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// deriveTimeSignature averages every tempo event and takes the first time
// signature, defaulting to 500000us per quarter and 4/4.
func deriveTimeSignature(lists [][]Event, quarter int) (TimeSignature, error) {
	tempoCount, tempo := 0, 0
	numer, denom := 0, 0
	for _, list := range lists {
		for _, e := range list {
			if e.EventFlag != MetaEvent {
				continue
			}
			if e.MetaEvent == MetaEventTempo {
				tempo += e.Tempo
				tempoCount++
			}
			if e.MetaEvent == MetaEventTimeSignature && numer == 0 {
				numer, denom = int(e.Numerator), int(e.Denominator)
			}
		}
	}
	if tempo == 0 {
		tempo = defaultTempo
	} else {
		tempo /= tempoCount
	}
	if numer == 0 || denom == 0 {
		numer, denom = 4, 4
	}
	return NewTimeSignature(numer, denom, quarter, tempo)
}

/*
readTrack parses one MTrk chunk. Running out of data anywhere inside an event
is not fatal: in its delta time, its status byte, or its payload, including
meta and sysex data. The partial event is dropped and the events read so far
come back with truncated set. A bad chunk id, an unknown event code or a bad
tempo length is fatal.
*/
func readTrack(r *Reader) (events []Event, truncated bool, err error) {
	id, err := r.ReadAscii(4)
	if err != nil {
		return nil, false, err
	}
	if id != "MTrk" {
		return nil, false, formatErrorf(r.Offset()-4, "bad MTrk header %q", id)
	}
	trackLen, err := r.ReadInt()
	if err != nil {
		return nil, false, err
	}
	trackEnd := trackLen + r.Offset()
	startTime := 0
	var eventFlag byte

	for r.Offset() < trackEnd {
		e, err := readEvent(r, &startTime, &eventFlag)
		if err != nil {
			if IsTruncated(err) {
				return events, true, nil
			}
			return nil, false, err
		}
		events = append(events, e)
	}
	return events, false, nil
}

func readEvent(r *Reader, startTime *int, eventFlag *byte) (e Event, err error) {
	delta, err := r.ReadVarlen()
	if err != nil {
		return e, err
	}
	peek, err := r.Peek()
	if err != nil {
		return e, err
	}
	*startTime += delta
	e.DeltaTime = delta
	e.StartTime = *startTime

	if peek >= EventNoteOff {
		e.HasEventFlag = true
		if *eventFlag, err = r.ReadByte(); err != nil {
			return e, err
		}
	}
	flag := *eventFlag

	switch {
	case flag >= EventNoteOff && flag < SysexEvent1:
		e.EventFlag = flag & highOrderMask
		e.Channel = flag & lowOrderMask
		err = readChannelPayload(r, &e)
	case flag == SysexEvent1 || flag == SysexEvent2:
		e.EventFlag = flag
		if e.MetaLength, err = r.ReadVarlen(); err != nil {
			return e, err
		}
		e.Value, err = r.ReadBytes(e.MetaLength)
	case flag == MetaEvent:
		e.EventFlag = MetaEvent
		err = readMetaPayload(r, &e)
	default:
		return e, formatErrorf(r.Offset()-1, "unknown event 0x%02x", flag)
	}
	return e, err
}

func readChannelPayload(r *Reader, e *Event) (err error) {
	switch e.EventFlag {
	case EventNoteOn, EventNoteOff:
		if e.NoteNumber, err = r.ReadByte(); err != nil {
			return err
		}
		e.Velocity, err = r.ReadByte()
	case EventKeyPressure:
		if e.NoteNumber, err = r.ReadByte(); err != nil {
			return err
		}
		e.KeyPressure, err = r.ReadByte()
	case EventControlChange:
		if e.ControlNum, err = r.ReadByte(); err != nil {
			return err
		}
		e.ControlValue, err = r.ReadByte()
	case EventProgramChange:
		e.Instrument, err = r.ReadByte()
	case EventChannelPressure:
		e.ChanPressure, err = r.ReadByte()
	case EventPitchBend:
		var lsb, msb byte
		if lsb, err = r.ReadByte(); err != nil {
			return err
		}
		if msb, err = r.ReadByte(); err != nil {
			return err
		}
		e.PitchBend = int(msb&sevenBitMask)<<7 | int(lsb&sevenBitMask)
	}
	return err
}

func readMetaPayload(r *Reader, e *Event) (err error) {
	if e.MetaEvent, err = r.ReadByte(); err != nil {
		return err
	}
	if e.MetaLength, err = r.ReadVarlen(); err != nil {
		return err
	}
	if e.Value, err = r.ReadBytes(e.MetaLength); err != nil {
		return err
	}
	switch e.MetaEvent {
	case MetaEventTimeSignature:
		if e.MetaLength < 2 {
			return formatErrorf(r.Offset(), "meta event time signature len == %d, expected 4", e.MetaLength)
		}
		e.Numerator = e.Value[0]
		if e.Value[1] < 8 {
			e.Denominator = 1 << e.Value[1]
		}
	case MetaEventTempo:
		if e.MetaLength != 3 {
			return formatErrorf(r.Offset(), "meta event tempo len == %d, expected 3", e.MetaLength)
		}
		e.Tempo = int(e.Value[0])<<16 | int(e.Value[1])<<8 | int(e.Value[2])
	}
	return nil
}

func hasMultipleChannels(t *Track) bool {
	if len(t.Notes) == 0 {
		return false
	}
	channel := t.Notes[0].Channel
	for _, n := range t.Notes {
		if n.Channel != channel {
			return true
		}
	}
	return false
}

// SplitChannels turns a multi-channel track into one track per channel, in
// order of first appearance. Channel 9 is tagged as percussion.
func SplitChannels(orig *Track, events []Event) []*Track {
	var channelInstruments [16]int
	for _, e := range events {
		if e.EventFlag == EventProgramChange {
			channelInstruments[e.Channel] = int(e.Instrument)
		}
	}
	channelInstruments[PercussionChannel] = PercussionInstrument

	var result []*Track
	byChannel := map[int]*Track{}
	for _, n := range orig.Notes {
		track, ok := byChannel[n.Channel]
		if !ok {
			track = NewTrack(len(result) + 1)
			track.Instrument = channelInstruments[n.Channel&lowOrderMask]
			byChannel[n.Channel] = track
			result = append(result, track)
		}
		track.AddNote(n)
	}
	for _, lyric := range orig.Lyrics {
		if track, ok := byChannel[int(lyric.Channel)]; ok {
			track.AddLyric(lyric)
		}
	}
	return result
}

func checkStartTimes(tracks []*Track) error {
	for _, t := range tracks {
		prev := -1
		for _, n := range t.Notes {
			if n.StartTime < prev {
				return errors.Wrapf(ErrStartTimes, "track %d", t.Number)
			}
			prev = n.StartTime
		}
	}
	return nil
}

// EndTime is the end of the last note across all tracks.
func (f *File) EndTime() int {
	end := 0
	for _, t := range f.Tracks {
		if e := t.EndTime(); e > end {
			end = e
		}
	}
	return end
}

// Title is the file name without its extension, with underscores as spaces.
func (f *File) Title() string {
	title := strings.TrimSuffix(f.FileName, filepath.Ext(f.FileName))
	return strings.ReplaceAll(title, "_", " ")
}

/*
GuessMeasureLength returns candidate measure lengths, in pulses, between half
a second and four seconds. Candidates are the distances from the first note to
later notes that start more than 60ms after the previous one.
*/
func (f *File) GuessMeasureLength() []int {
	var result []int
	if len(f.Tracks) == 0 {
		return result
	}
	pulsesPerSecond := int(1000000.0 / float64(f.Time.Tempo) * float64(f.Time.Quarter))
	minMeasure := pulsesPerSecond / 2
	maxMeasure := pulsesPerSecond * 4

	firstNote := f.Time.Measure * 5
	for _, t := range f.Tracks {
		if len(t.Notes) > 0 && firstNote > t.Notes[0].StartTime {
			firstNote = t.Notes[0].StartTime
		}
	}
	interval := f.Time.Quarter * 60000 / f.Time.Tempo

	seen := map[int]bool{}
	for _, t := range f.Tracks {
		prevTime := 0
		for _, n := range t.Notes {
			if n.StartTime-prevTime <= interval {
				continue
			}
			prevTime = n.StartTime
			fromFirst := (n.StartTime - firstNote) / 4 * 4
			if fromFirst < minMeasure {
				continue
			}
			if fromFirst > maxMeasure {
				break
			}
			if !seen[fromFirst] {
				seen[fromFirst] = true
				result = append(result, fromFirst)
			}
		}
	}
	sort.Ints(result)
	return result
}
