package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestParseSimpleMelody(t *testing.T) {
	assert := assert.New(t)
	f, err := Parse(midiBytes(1, 480, simpleMelody(480)), "simple_melody.mid")
	require.NoError(t, err)

	assert.Equal(1, f.TrackMode)
	assert.Equal(480, f.Quarter)
	assert.False(f.Truncated)
	assert.Equal("simple melody", f.Title())
	require.Len(t, f.Tracks, 1)

	track := f.Tracks[0]
	assert.Equal(0, track.Number)
	require.Len(t, track.Notes, 4)
	for i, n := range []int{60, 62, 64, 65} {
		assert.Equal(n, track.Notes[i].Number)
		assert.Equal(i*480, track.Notes[i].StartTime)
		assert.Equal(480, track.Notes[i].Duration)
	}
	assert.Equal(4*480, f.TotalPulses)

	// No tempo or time signature events: 500000us and 4/4.
	assert.Equal(defaultTempo, f.Time.Tempo)
	assert.Equal(4, f.Time.Numerator)
	assert.Equal(4, f.Time.Denominator)
	assert.Equal(4*480, f.Time.Measure)
}

func TestParseHeaderErrors(t *testing.T) {
	data := midiBytes(1, 480, simpleMelody(480))

	bad := append([]byte{}, data...)
	copy(bad, "RIFF")
	_, err := Parse(bad, "")
	assert.EqualError(t, err, "midi: doesn't start with MThd (offset 0)")

	bad = append([]byte{}, data...)
	bad[7] = 7
	_, err = Parse(bad, "")
	assert.Error(t, err)
	assert.False(t, IsTruncated(err))

	_, err = Parse(data[:10], "")
	assert.True(t, IsTruncated(err))
}

func TestParseRunningStatus(t *testing.T) {
	track := trackChunk(
		ev(0, 0x90, 60, 100),
		ev(0, 64, 100),
		ev(240, 60, 0),
		ev(240, 64, 0),
		endOfTrack(),
	)
	f, err := Parse(midiBytes(0, 480, track), "")
	require.NoError(t, err)
	notes := f.Tracks[0].Notes
	require.Len(t, notes, 2)
	assert.Equal(t, Note{StartTime: 0, Number: 60, Duration: 240}, notes[0])
	assert.Equal(t, Note{StartTime: 0, Number: 64, Duration: 480}, notes[1])

	// Running status events carry no status byte of their own.
	assert.True(t, f.Events[0][0].HasEventFlag)
	assert.False(t, f.Events[0][1].HasEventFlag)
}

func TestNoteOffClosesLatestNote(t *testing.T) {
	track := trackChunk(
		ev(0, 0x90, 60, 100),
		ev(100, 0x90, 60, 100),
		ev(100, 0x80, 60, 0),
		ev(100, 0x90, 60, 0),
		endOfTrack(),
	)
	f, err := Parse(midiBytes(0, 480, track), "")
	require.NoError(t, err)
	notes := f.Tracks[0].Notes
	require.Len(t, notes, 2)
	assert.Equal(t, 300, notes[0].Duration)
	assert.Equal(t, 100, notes[1].Duration)
}

func TestParseMetaEvents(t *testing.T) {
	assert := assert.New(t)
	meta := trackChunk(
		ev(0, 0xFF, 0x58, 4, 3, 3, 24, 8),
		ev(0, 0xFF, 0x51, 3, 0x07, 0xA1, 0x20),
		ev(480, 0xFF, 0x51, 3, 0x03, 0xD0, 0x90),
		endOfTrack(),
	)
	notes := trackChunk(
		ev(0, 0xC0, 40),
		ev(0, 0x90, 67, 90),
		ev(0, 0xFF, 0x05, 2, 'l', 'a'),
		ev(240, 0x80, 67, 0),
		endOfTrack(),
	)
	f, err := Parse(midiBytes(1, 480, meta, notes), "")
	require.NoError(t, err)

	assert.Equal(3, f.Time.Numerator)
	assert.Equal(8, f.Time.Denominator)
	assert.Equal(3*240, f.Time.Measure)
	assert.Equal((500000+250000)/2, f.Time.Tempo)

	require.Len(t, f.Tracks, 1)
	track := f.Tracks[0]
	assert.Equal(1, track.Number)
	assert.Equal(40, track.Instrument)
	assert.Equal("Violin", track.InstrumentName())
	require.Len(t, track.Lyrics, 1)
	assert.Equal("la", string(track.Lyrics[0].Value))
	assert.Len(f.Events, 2)
}

func TestParseBadTempoLength(t *testing.T) {
	track := trackChunk(ev(0, 0xFF, 0x51, 2, 0x07, 0xA1), endOfTrack())
	_, err := Parse(midiBytes(0, 480, track), "")
	assert.Error(t, err)
	assert.False(t, IsTruncated(err))
}

func TestParseUnknownEvent(t *testing.T) {
	track := trackChunk(ev(0, 0xF4, 0), endOfTrack())
	_, err := Parse(midiBytes(0, 480, track), "")
	require.Error(t, err)
	_, ok := errors.Cause(err).(*FormatError)
	assert.True(t, ok)
}

func TestParseTruncatedTrack(t *testing.T) {
	assert := assert.New(t)
	second := trackChunk(
		ev(0, 0x90, 72, 100),
		ev(96, 0x80, 72, 0),
		ev(0, 0x90, 74, 100),
		ev(96, 0x80, 74, 0),
		endOfTrack(),
	)
	data := midiBytes(1, 96, simpleMelody(96), second)
	data = data[:len(data)-10]

	f, err := Parse(data, "")
	require.NoError(t, err)
	assert.True(f.Truncated)
	require.Len(t, f.Tracks, 2)
	assert.Len(f.Tracks[0].Notes, 4)
	require.Len(t, f.Tracks[1].Notes, 1)
	assert.Equal(Note{StartTime: 0, Number: 72, Duration: 96}, f.Tracks[1].Notes[0])
	assert.Len(f.Events[1], 2)
}

func TestParseTruncatedInsideMetaPayload(t *testing.T) {
	assert := assert.New(t)
	second := trackChunk(
		ev(0, 0x90, 72, 100),
		ev(96, 0x80, 72, 0),
		ev(0, 0xFF, 0x01, 10, 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j'),
		ev(0, 0x90, 74, 100),
		ev(96, 0x80, 74, 0),
		endOfTrack(),
	)
	data := midiBytes(1, 96, simpleMelody(96), second)
	cut := bytes.Index(data, []byte("abcdefghij")) + 3
	data = data[:cut]

	f, err := Parse(data, "")
	require.NoError(t, err)
	assert.True(f.Truncated)
	require.Len(t, f.Tracks, 2)
	assert.Len(f.Tracks[0].Notes, 4)
	assert.Equal([]Note{{StartTime: 0, Number: 72, Duration: 96}}, f.Tracks[1].Notes)
	assert.Len(f.Events[1], 2, "the cut text event is dropped")
}

func TestParseTruncatedDelta(t *testing.T) {
	assert := assert.New(t)
	first := []byte(nil)
	first = append(first, ev(0, 0x90, 72, 100)...)
	first = append(first, ev(96, 0x80, 72, 0)...)
	second := trackChunk(
		ev(0, 0x90, 72, 100),
		ev(96, 0x80, 72, 0),
		ev(200, 0x90, 74, 100),
		ev(96, 0x80, 74, 0),
		endOfTrack(),
	)
	data := midiBytes(1, 96, simpleMelody(96), second)
	// Keep the first byte of the two byte delta of 200.
	cut := len(data) - len(second) + 8 + len(first) + 1
	require.Equal(t, byte(0x81), data[cut-1])
	data = data[:cut]

	f, err := Parse(data, "")
	require.NoError(t, err)
	assert.True(f.Truncated)
	require.Len(t, f.Tracks, 2)
	assert.Len(f.Events[1], 2)
	assert.Equal([]Note{{StartTime: 0, Number: 72, Duration: 96}}, f.Tracks[1].Notes)
}

func TestParseSplitsChannels(t *testing.T) {
	assert := assert.New(t)
	track := trackChunk(
		ev(0, 0xC1, 33),
		ev(0, 0x90, 72, 100),
		ev(0, 0x91, 48, 100),
		ev(0, 0x99, 38, 100),
		ev(480, 0x80, 72, 0),
		ev(0, 0x81, 48, 0),
		ev(0, 0x89, 38, 0),
		endOfTrack(),
	)
	f, err := Parse(midiBytes(0, 480, track), "")
	require.NoError(t, err)
	assert.True(f.TrackPerChannel)
	require.Len(t, f.Tracks, 3)
	assert.Equal(0, f.Tracks[0].Notes[0].Channel)
	assert.Equal(1, f.Tracks[1].Notes[0].Channel)
	assert.Equal(33, f.Tracks[1].Instrument)
	assert.Equal(PercussionInstrument, f.Tracks[2].Instrument)
	assert.Equal("Percussion", f.Tracks[2].InstrumentName())

	opts := NewOptions(f)
	assert.Equal([]bool{true, true, false}, opts.Tracks)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, os.WriteFile(path, midiBytes(1, 480, simpleMelody(480)), 0o644))
	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "song.mid", f.FileName)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}

func TestParseGomidiFile(t *testing.T) {
	assert := assert.New(t)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var tr smf.Track
	tr.Add(0, smf.MetaMeter(3, 4))
	tr.Add(0, smf.MetaTempo(100))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(480, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOn(0, 62, 100))
	tr.Add(960, gomidi.NoteOff(0, 62))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	f, err := Parse(buf.Bytes(), "gomidi.mid")
	require.NoError(t, err)
	assert.Equal(480, f.Quarter)
	assert.Equal(3, f.Time.Numerator)
	assert.Equal(4, f.Time.Denominator)
	assert.Equal(600000, f.Time.Tempo)
	require.Len(t, f.Tracks, 1)
	assert.Equal([]Note{
		{StartTime: 0, Number: 60, Duration: 480},
		{StartTime: 480, Number: 62, Duration: 960},
	}, f.Tracks[0].Notes)
}

func TestGuessMeasureLength(t *testing.T) {
	f, err := Parse(midiBytes(1, 480, simpleMelody(480)), "")
	require.NoError(t, err)
	// 960 pulses per second: candidates lie in [480, 3840].
	assert.Equal(t, []int{480, 960, 1440}, f.GuessMeasureLength())
}
