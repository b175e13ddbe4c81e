package sample

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/unscatty/PianoViaR-sub000/midi"
)

func melody(t *testing.T) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	for _, key := range []uint8{60, 62, 64, 65} {
		tr.Add(0, gomidi.NoteOn(0, key, 100))
		tr.Add(480, gomidi.NoteOff(0, key))
	}
	tr.Close(0)
	require.NoError(t, s.Add(tr))
	return s
}

type heard struct {
	key   uint8
	ticks uint64
}

func noteStarts(s *smf.SMF) []heard {
	var res []heard
	for _, tr := range s.Tracks {
		var abs uint64
		for _, evt := range tr {
			abs += uint64(evt.Delta)
			var ch, key, vel uint8
			if gomidi.Message(evt.Message).GetNoteStart(&ch, &key, &vel) {
				res = append(res, heard{key, abs})
			}
		}
	}
	return res
}

func TestCreateStartsAtOffset(t *testing.T) {
	res := Create(melody(t), 960, 10)

	assert := assert.New(t)
	assert.Len(res.Tracks, 1)
	assert.Equal([]heard{{64, 0}, {65, 480}}, noteStarts(res))
}

func TestCreateLimitsNoteEvents(t *testing.T) {
	res := Create(melody(t), 0, 3)

	assert := assert.New(t)
	assert.Equal([]heard{{60, 0}, {62, 480}}, noteStarts(res))
	last := res.Tracks[0][len(res.Tracks[0])-1]
	assert.True(isEndOfTrack(last.Message))
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	_, err := melody(t).WriteTo(&buf)
	require.NoError(t, err)
	f, err := midi.Parse(buf.Bytes(), "melody.mid")
	require.NoError(t, err)

	opts := midi.NewOptions(f)
	opts.Transpose = 12
	data, err := Preview(f, opts, 480)
	require.NoError(t, err)

	res, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []heard{{74, 0}, {76, 480}, {77, 960}}, noteStarts(res))
}
