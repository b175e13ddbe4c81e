package midi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func twoTrackSong(t *testing.T) *File {
	meta := trackChunk(
		ev(0, 0xFF, 0x58, 4, 3, 2, 24, 8),
		ev(0, 0xFF, 0x51, 3, 0x07, 0xA1, 0x20),
		endOfTrack(),
	)
	bass := trackChunk(
		ev(0, 0xC1, 32),
		ev(0, 0x91, 36, 80),
		ev(960, 0x81, 36, 0),
		ev(0, 0xE1, 0x00, 0x40),
		ev(0, 0xF0, 2, 0x7E, 0xF7),
		endOfTrack(),
	)
	f, err := Parse(midiBytes(1, 480, meta, simpleMelody(480), bass), "song.mid")
	require.NoError(t, err)
	return f
}

func TestWriteRoundTrip(t *testing.T) {
	f := twoTrackSong(t)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	again, err := Parse(buf.Bytes(), "song.mid")
	require.NoError(t, err)
	assert.Equal(t, f.Time, again.Time)
	assert.Equal(t, f.Tracks, again.Tracks)
	require.Len(t, again.Events, 3)
	pitch := again.Events[2][3]
	assert.Equal(t, byte(EventPitchBend), pitch.EventFlag)
	assert.Equal(t, 0x2000, pitch.PitchBend)
	assert.Equal(t, []byte{0x7E, 0xF7}, again.Events[2][4].Value)
}

func TestWrittenFileReadsWithGomidi(t *testing.T) {
	f := twoTrackSong(t)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 3)
	assert.Equal(t, smf.MetricTicks(480), s.TimeFormat)
}

func TestWriteEventsClosesTracks(t *testing.T) {
	events := [][]Event{{
		NewTempoEvent(600000),
		{EventFlag: EventNoteOn, NoteNumber: 60, Velocity: 90},
		{EventFlag: EventNoteOn, NoteNumber: 64, Velocity: 90},
		{DeltaTime: 240, EventFlag: EventNoteOff, NoteNumber: 60},
		{EventFlag: EventNoteOff, NoteNumber: 64},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteEvents(&buf, events, 0, 120))

	f, err := Parse(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, 600000, f.Time.Tempo)
	assert.Equal(t, 120, f.Quarter)
	require.Len(t, f.Events, 1)
	written := f.Events[0]
	require.Len(t, written, 6)
	assert.False(t, written[2].HasEventFlag, "repeated note on uses running status")
	assert.Equal(t, byte(MetaEventEndOfTrack), written[5].MetaEvent)
	require.Len(t, f.Tracks, 1)
	assert.Equal(t, []Note{
		{StartTime: 0, Channel: 0, Number: 60, Duration: 240},
		{StartTime: 0, Channel: 0, Number: 64, Duration: 240},
	}, f.Tracks[0].Notes)
}

func TestWriteEventsRejectsBadQuarter(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteEvents(&buf, [][]Event{{}}, 0, 0))
	assert.Error(t, WriteEvents(&buf, [][]Event{{}}, 0, 0x8000))
	assert.Error(t, WriteEvents(&buf, [][]Event{{{DeltaTime: -1, EventFlag: EventNoteOn}}}, 0, 480))
}

func TestChangeSound(t *testing.T) {
	assert := assert.New(t)
	f := twoTrackSong(t)
	opts := NewOptions(f)
	opts.Transpose = 2
	opts.Tempo = 250000
	opts.UseDefaultInstruments = false
	opts.Instruments[0] = 73
	opts.Mute[1] = true

	var buf bytes.Buffer
	require.NoError(t, f.ChangeSound(&buf, opts))
	changed, err := Parse(buf.Bytes(), "")
	require.NoError(t, err)

	assert.Len(changed.Events, 2, "the muted bass track is dropped")
	assert.Equal(250000, changed.Time.Tempo)
	require.Len(t, changed.Tracks, 1)
	assert.Equal(62, changed.Tracks[0].Notes[0].Number)
	assert.Equal(60, f.Tracks[0].Notes[0].Number, "the file itself is unchanged")
}

func TestApplyOptionsPerChannel(t *testing.T) {
	track := trackChunk(
		ev(0, 0x90, 72, 100),
		ev(0, 0x91, 48, 100),
		ev(480, 0x80, 72, 0),
		ev(0, 0x81, 48, 0),
		endOfTrack(),
	)
	f, err := Parse(midiBytes(0, 480, track), "")
	require.NoError(t, err)
	require.True(t, f.TrackPerChannel)

	opts := NewOptions(f)
	opts.Mute[1] = true
	events := f.ApplyOptionsToEvents(opts)
	require.Len(t, events, 1)
	for _, e := range events[0] {
		if e.IsNote() && e.Channel == 1 {
			assert.Zero(t, e.Velocity)
		}
		if e.EventFlag == EventNoteOn && e.Channel == 0 {
			assert.Equal(t, byte(100), e.Velocity)
		}
	}
}

func TestStartAtPauseTime(t *testing.T) {
	lists := [][]Event{{
		NewTempoEvent(500000),
		{StartTime: 0, EventFlag: EventNoteOn, NoteNumber: 60, Velocity: 90},
		{StartTime: 0, EventFlag: EventProgramChange, Instrument: 4},
		{StartTime: 480, DeltaTime: 480, EventFlag: EventNoteOff, NoteNumber: 60},
		{StartTime: 480, EventFlag: EventNoteOn, NoteNumber: 62, Velocity: 90},
		{StartTime: 960, DeltaTime: 480, EventFlag: EventNoteOff, NoteNumber: 62},
	}}
	result := StartAtPauseTime(lists, 400)
	require.Len(t, result[0], 5)
	assert.Equal(t, byte(MetaEvent), result[0][0].EventFlag)
	assert.Equal(t, byte(EventProgramChange), result[0][1].EventFlag)
	assert.Equal(t, 80, result[0][2].DeltaTime)
	assert.Equal(t, 0, result[0][3].DeltaTime)
	assert.Equal(t, 480, result[0][4].DeltaTime)

	result = StartAtPauseTime(lists, 480)
	assert.Equal(t, 0, result[0][2].DeltaTime)
}
