package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(t *testing.T) TimeSignature {
	ts, err := NewTimeSignature(4, 4, 480, 500000)
	require.NoError(t, err)
	return ts
}

func TestRoundStartTimes(t *testing.T) {
	assert := assert.New(t)
	a := &Track{Notes: []Note{{StartTime: 0, Number: 60, Duration: 100}, {StartTime: 500, Number: 62, Duration: 100}}}
	b := &Track{Notes: []Note{{StartTime: 20, Number: 48, Duration: 100}, {StartTime: 530, Number: 50, Duration: 100}}}

	// 40ms at 500000us per quarter is 38 pulses.
	rounded, err := RoundStartTimes([]*Track{a, b}, 40, testTime(t))
	require.NoError(t, err)
	assert.Equal(0, rounded[1].Notes[0].StartTime)
	assert.Equal(500, rounded[1].Notes[1].StartTime)
	assert.Equal(500, rounded[0].Notes[1].StartTime)
	assert.Equal(20, b.Notes[0].StartTime, "input tracks are not modified")

	again, err := RoundStartTimes(rounded, 40, testTime(t))
	require.NoError(t, err)
	assert.Equal(rounded, again)
}

func TestRoundStartTimesChains(t *testing.T) {
	track := &Track{Notes: []Note{
		{StartTime: 0, Number: 60, Duration: 10},
		{StartTime: 30, Number: 62, Duration: 10},
		{StartTime: 60, Number: 64, Duration: 10},
	}}
	rounded, err := RoundStartTimes([]*Track{track}, 40, testTime(t))
	require.NoError(t, err)
	// 60 is within 38 of 30, which merged onto 0, but is too far from 0.
	assert.Equal(t, 0, rounded[0].Notes[1].StartTime)
	assert.Equal(t, 60, rounded[0].Notes[2].StartTime)
}

func TestRoundStartTimesUnordered(t *testing.T) {
	track := &Track{Notes: []Note{{StartTime: 100, Number: 60}, {StartTime: 0, Number: 62}}}
	_, err := RoundStartTimes([]*Track{track}, 40, testTime(t))
	assert.ErrorIs(t, err, ErrStartTimes)
}

func TestRoundDurations(t *testing.T) {
	track := &Track{Notes: []Note{
		{StartTime: 0, Number: 60, Duration: 10},
		{StartTime: 480, Number: 62, Duration: 10},
		{StartTime: 600, Number: 64, Duration: 10},
		{StartTime: 1000, Number: 65, Duration: 10},
	}}
	rounded := RoundDurations([]*Track{track}, 480)
	var durations []int
	for _, n := range rounded[0].Notes {
		durations = append(durations, n.Duration)
	}
	assert.Equal(t, []int{480, 120, 240, 10}, durations)
	assert.Equal(t, 10, track.Notes[0].Duration)
}

func TestRoundDurationsNeverShrinks(t *testing.T) {
	track := &Track{Notes: []Note{
		{StartTime: 0, Number: 60, Duration: 900},
		{StartTime: 120, Number: 62, Duration: 10},
	}}
	rounded := RoundDurations([]*Track{track}, 480)
	assert.Equal(t, 900, rounded[0].Notes[0].Duration)
}

func TestSplitTrack(t *testing.T) {
	assert := assert.New(t)
	track := &Track{Instrument: 5, Notes: []Note{
		{StartTime: 0, Number: 40, Duration: 480},
		{StartTime: 0, Number: 80, Duration: 480},
		{StartTime: 10000, Number: 60, Duration: 480},
	}}
	top, bottom := SplitTrack(track, 1920)
	assert.Equal([]Note{{StartTime: 0, Number: 80, Duration: 480}, {StartTime: 10000, Number: 60, Duration: 480}}, top.Notes)
	assert.Equal([]Note{{StartTime: 0, Number: 40, Duration: 480}}, bottom.Notes)
	assert.Equal(5, top.Instrument)
	assert.Equal(5, bottom.Instrument)
}

func TestSplitTrackCascade(t *testing.T) {
	tests := []struct {
		name   string
		notes  []Note
		top    []Note
		bottom []Note
	}{
		{
			// 60 is within an octave of the 50-70 chord but two octaves and
			// more below the held 90, so it goes down with the chord's low end.
			name: "note held over the chord decides",
			notes: []Note{
				{StartTime: 0, Number: 90, Duration: 1920},
				{StartTime: 480, Number: 50, Duration: 480},
				{StartTime: 480, Number: 60, Duration: 480},
				{StartTime: 480, Number: 70, Duration: 480},
			},
			top: []Note{
				{StartTime: 0, Number: 90, Duration: 1920},
				{StartTime: 480, Number: 70, Duration: 480},
			},
			bottom: []Note{
				{StartTime: 480, Number: 50, Duration: 480},
				{StartTime: 480, Number: 60, Duration: 480},
			},
		},
		{
			name: "chord without a held note splits on its own spread",
			notes: []Note{
				{StartTime: 480, Number: 50, Duration: 480},
				{StartTime: 480, Number: 60, Duration: 480},
				{StartTime: 480, Number: 70, Duration: 480},
			},
			top: []Note{
				{StartTime: 480, Number: 60, Duration: 480},
				{StartTime: 480, Number: 70, Duration: 480},
			},
			bottom: []Note{
				{StartTime: 480, Number: 50, Duration: 480},
			},
		},
		{
			name:   "lone note falls back to the starting range",
			notes:  []Note{{StartTime: 10000, Number: 55, Duration: 480}},
			bottom: []Note{{StartTime: 10000, Number: 55, Duration: 480}},
		},
		{
			// The 40-62 chord moves the remembered range down, so a later
			// lone 55 is now closer to the top.
			name: "wide chord moves the remembered range",
			notes: []Note{
				{StartTime: 0, Number: 40, Duration: 480},
				{StartTime: 0, Number: 62, Duration: 480},
				{StartTime: 10000, Number: 55, Duration: 480},
			},
			top: []Note{
				{StartTime: 0, Number: 62, Duration: 480},
				{StartTime: 10000, Number: 55, Duration: 480},
			},
			bottom: []Note{{StartTime: 0, Number: 40, Duration: 480}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, bottom := SplitTrack(&Track{Notes: tt.notes}, 1920)
			assert.Equal(t, tt.top, top.Notes)
			assert.Equal(t, tt.bottom, bottom.Notes)
		})
	}
}

func TestSplitTrackKeepsEveryNote(t *testing.T) {
	var notes []Note
	for i := 0; i < 200; i++ {
		notes = append(notes, Note{StartTime: i / 3 * 120, Number: 30 + (i*37)%60, Duration: 60 + (i%4)*60})
	}
	sortNotes(notes)
	track := &Track{Notes: notes}
	top, bottom := SplitTrack(track, 1920)
	require.Equal(t, len(notes), len(top.Notes)+len(bottom.Notes))

	count := map[Note]int{}
	for _, n := range notes {
		count[n]++
	}
	for _, n := range append(append([]Note{}, top.Notes...), bottom.Notes...) {
		count[n]--
	}
	for n, c := range count {
		assert.Zero(t, c, "note %+v", n)
	}
}

func TestCombineToSingleTrack(t *testing.T) {
	a := &Track{Instrument: 3, Notes: []Note{{StartTime: 0, Number: 60, Duration: 100}, {StartTime: 100, Number: 62, Duration: 100}}}
	b := &Track{Notes: []Note{{StartTime: 0, Number: 55, Duration: 100}, {StartTime: 0, Number: 60, Duration: 200}}}
	combined := CombineToSingleTrack([]*Track{a, b})
	assert.Equal(t, []Note{
		{StartTime: 0, Number: 55, Duration: 100},
		{StartTime: 0, Number: 60, Duration: 200},
		{StartTime: 100, Number: 62, Duration: 100},
	}, combined.Notes)
	assert.Equal(t, 3, combined.Instrument)
	assert.Equal(t, 100, a.Notes[0].Duration)
}

func TestCombineToTwoTracksMovesLyrics(t *testing.T) {
	a := &Track{Notes: []Note{{StartTime: 0, Number: 72, Duration: 100}}}
	b := &Track{Notes: []Note{{StartTime: 0, Number: 36, Duration: 100}},
		Lyrics: []Event{{StartTime: 0, EventFlag: MetaEvent, MetaEvent: MetaEventLyric, Value: []byte("do")}}}
	tracks := CombineToTwoTracks([]*Track{a, b}, 1920)
	require.Len(t, tracks, 2)
	assert.Equal(t, 72, tracks[0].Notes[0].Number)
	assert.Equal(t, 36, tracks[1].Notes[0].Number)
	require.Len(t, tracks[0].Lyrics, 1)
	assert.Empty(t, tracks[1].Lyrics)
}

func TestShiftAndTranspose(t *testing.T) {
	track := &Track{Notes: []Note{{StartTime: 0, Number: 3}, {StartTime: 10, Number: 120}}}
	shifted := ShiftTime([]*Track{track}, 50)
	assert.Equal(t, 50, shifted[0].Notes[0].StartTime)
	assert.Equal(t, 60, shifted[0].Notes[1].StartTime)

	up := Transpose([]*Track{track}, 10)
	assert.Equal(t, 13, up[0].Notes[0].Number)
	assert.Equal(t, 127, up[0].Notes[1].Number)
	down := Transpose([]*Track{track}, -10)
	assert.Equal(t, 0, down[0].Notes[0].Number)
	assert.Equal(t, 3, track.Notes[0].Number)
}

func TestChangeMidiNotes(t *testing.T) {
	f, err := Parse(midiBytes(1, 480, simpleMelody(480)), "")
	require.NoError(t, err)
	opts := NewOptions(f)
	assert.True(t, opts.TwoStaffs)
	opts.Transpose = 12

	tracks, err := f.ChangeMidiNotes(opts)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	// Middle C sits closer to the bass staff than to the treble one.
	require.Len(t, tracks[0].Notes, 3)
	require.Len(t, tracks[1].Notes, 1)
	assert.Equal(t, 74, tracks[0].Notes[0].Number)
	assert.Equal(t, 72, tracks[1].Notes[0].Number)
	assert.Equal(t, 60, f.Tracks[0].Notes[0].Number)
}
