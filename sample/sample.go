package sample

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/unscatty/PianoViaR-sub000/constants"
	"github.com/unscatty/PianoViaR-sub000/midi"
)

func isEndOfTrack(msg smf.Message) bool {
	return len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x2F
}

/*
Create cuts an excerpt of mf starting at ticksOffset. Each track keeps its
non note events, moved up to the start, and at most maxNoteEvents note
events from the offset on.
*/
func Create(mf *smf.SMF, ticksOffset uint64, maxNoteEvents int) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks uint64
		lastTicks := ticksOffset
		var numNoteOnOff int
	TrackEventLoop:
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			switch {
			case isEndOfTrack(evt.Message):
				break TrackEventLoop
			case evt.Message.Is(gomidi.NoteOnMsg),
				evt.Message.Is(gomidi.NoteOffMsg):
				if absTicks < ticksOffset {
					continue
				}
				evt.Delta = uint32(absTicks - lastTicks)
				lastTicks = absTicks
				newTrack = append(newTrack, evt)
				numNoteOnOff += 1
				if numNoteOnOff >= maxNoteEvents {
					break TrackEventLoop
				}
			case absTicks < ticksOffset:
				evt.Delta = 0
				newTrack = append(newTrack, evt)
			default:
				evt.Delta = uint32(absTicks - lastTicks)
				lastTicks = absTicks
				newTrack = append(newTrack, evt)
			}
		}
		newTrack.Close(0)
		res.Tracks = append(res.Tracks, newTrack)
	}

	return &res
}

// Preview renders f with its sound options and returns a short excerpt from
// startPulse as a midi file.
func Preview(f *midi.File, opts midi.Options, startPulse int) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.ChangeSound(&buf, opts); err != nil {
		return nil, errors.Wrap(err, "could not write song")
	}
	mf, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "could not read song back")
	}
	res := Create(mf, uint64(startPulse), constants.PreviewNoteEvents)
	log.WithFields(log.Fields{"file": f.FileName, "start": startPulse, "tracks": len(res.Tracks)}).Debug("created preview")

	var out bytes.Buffer
	if _, err := res.WriteTo(&out); err != nil {
		return nil, errors.Wrap(err, "could not write preview")
	}
	return out.Bytes(), nil
}
