package midi

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// PercussionInstrument is the instrument id given to channel 9 tracks.
const PercussionInstrument = 128

// Track is the list of notes of one MIDI track (or one channel, when a single
// track was split by channel), with its instrument and lyric events.
type Track struct {
	Number     int
	Instrument int
	Notes      []Note
	Lyrics     []Event
}

func NewTrack(number int) *Track {
	return &Track{Number: number}
}

// newTrackFromEvents folds an event list into notes. A NoteOn with zero
// velocity or a NoteOff closes the most recently opened note of the same
// channel and number.
func newTrackFromEvents(events []Event, number int) *Track {
	t := &Track{Number: number, Notes: make([]Note, 0, len(events)/2)}
	for _, e := range events {
		switch {
		case e.EventFlag == EventNoteOn && e.Velocity > 0:
			t.AddNote(Note{StartTime: e.StartTime, Channel: int(e.Channel), Number: int(e.NoteNumber)})
		case e.EventFlag == EventNoteOn || e.EventFlag == EventNoteOff:
			t.NoteOff(int(e.Channel), int(e.NoteNumber), e.StartTime)
		case e.EventFlag == EventProgramChange:
			t.Instrument = int(e.Instrument)
		case e.EventFlag == MetaEvent && e.MetaEvent == MetaEventLyric:
			t.AddLyric(e)
		}
	}
	if len(t.Notes) > 0 && t.Notes[0].Channel == PercussionChannel {
		t.Instrument = PercussionInstrument
	}
	return t
}

func (t *Track) AddNote(n Note) {
	t.Notes = append(t.Notes, n)
}

// NoteOff closes the latest still-open note matching channel and number.
func (t *Track) NoteOff(channel, number, endTime int) {
	for i := len(t.Notes) - 1; i >= 0; i-- {
		n := &t.Notes[i]
		if n.Channel == channel && n.Number == number && n.Duration == 0 {
			n.Duration = endTime - n.StartTime
			return
		}
	}
	log.WithFields(log.Fields{"track": t.Number, "channel": channel, "note": number}).
		Debug("note off for unpressed note")
}

func (t *Track) AddLyric(e Event) {
	t.Lyrics = append(t.Lyrics, e.Clone())
}

func (t *Track) InstrumentName() string {
	if t.Instrument >= 0 && t.Instrument < len(Instruments) {
		return Instruments[t.Instrument]
	}
	return ""
}

// EndTime is the end of the last sounding note of the track.
func (t *Track) EndTime() int {
	end := 0
	for _, n := range t.Notes {
		if n.EndTime() > end {
			end = n.EndTime()
		}
	}
	return end
}

// Clone returns a copy sharing nothing with t.
func (t *Track) Clone() *Track {
	c := &Track{Number: t.Number, Instrument: t.Instrument}
	c.Notes = append([]Note(nil), t.Notes...)
	for _, e := range t.Lyrics {
		c.Lyrics = append(c.Lyrics, e.Clone())
	}
	return c
}

func cloneTracks(tracks []*Track) []*Track {
	result := make([]*Track, len(tracks))
	for i, t := range tracks {
		result[i] = t.Clone()
	}
	return result
}

func sortLyrics(lyrics []Event) {
	sort.SliceStable(lyrics, func(i, j int) bool {
		return lyrics[i].StartTime < lyrics[j].StartTime
	})
}
