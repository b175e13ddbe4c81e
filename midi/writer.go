package midi

import (
	"io"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// WriteEvents serializes event lists as a Standard MIDI File, one track per
// list. Channel messages are written with running status.
func WriteEvents(w io.Writer, events [][]Event, trackMode, quarter int) error {
	if len(events) > 0xFFFF {
		return errors.Errorf("have too many tracks (%d), limited to %d", len(events), 0xFFFF)
	}
	if quarter <= 0 || quarter > 0x7FFF {
		return errors.Errorf("cannot write %d pulses per quarter note", quarter)
	}

	var s *smf.SMF
	switch trackMode {
	case 1:
		s = smf.NewSMF1()
	case 2:
		s = smf.NewSMF2()
	default:
		s = smf.New()
	}
	s.TimeFormat = smf.MetricTicks(quarter)

	for i, list := range events {
		var track smf.Track
		for _, e := range list {
			raw, err := encodeEvent(e)
			if err != nil {
				return errors.Wrapf(err, "track %d", i)
			}
			if e.DeltaTime < 0 {
				return errors.Errorf("track %d: negative delta time %d", i, e.DeltaTime)
			}
			track.Add(uint32(e.DeltaTime), raw)
		}
		track.Close(0)
		if err := s.Add(track); err != nil {
			return errors.Wrapf(err, "track %d", i)
		}
	}

	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed writing midi file")
	}
	return nil
}

// encodeEvent returns the message bytes of e as smf.Track expects them:
// sysex data carries no length, the track writer adds it.
func encodeEvent(e Event) ([]byte, error) {
	status := e.EventFlag + e.Channel
	switch e.EventFlag {
	case EventNoteOn, EventNoteOff:
		return []byte{status, e.NoteNumber, e.Velocity}, nil
	case EventKeyPressure:
		return []byte{status, e.NoteNumber, e.KeyPressure}, nil
	case EventControlChange:
		return []byte{status, e.ControlNum, e.ControlValue}, nil
	case EventProgramChange:
		return []byte{status, e.Instrument}, nil
	case EventChannelPressure:
		return []byte{status, e.ChanPressure}, nil
	case EventPitchBend:
		return []byte{status, byte(e.PitchBend & sevenBitMask), byte(e.PitchBend >> 7 & sevenBitMask)}, nil
	case SysexEvent1, SysexEvent2:
		return append([]byte{e.EventFlag}, e.Value...), nil
	case MetaEvent:
		value := e.Value
		if e.MetaEvent == MetaEventTempo {
			value = []byte{byte(e.Tempo >> 16), byte(e.Tempo >> 8), byte(e.Tempo)}
		}
		raw := append([]byte{MetaEvent, e.MetaEvent}, EncodeVarlen(len(value))...)
		return append(raw, value...), nil
	}
	return nil, errors.Errorf("cannot write event 0x%02x", e.EventFlag)
}

// Write serializes the raw events of f unchanged.
func (f *File) Write(w io.Writer) error {
	return WriteEvents(w, f.Events, f.TrackMode, f.Quarter)
}

// ChangeSound writes f with options applied to its events: instruments,
// transposition, tempo, muted tracks and the pause time.
func (f *File) ChangeSound(w io.Writer, opts Options) error {
	return WriteEvents(w, f.ApplyOptionsToEvents(opts), f.TrackMode, f.Quarter)
}
