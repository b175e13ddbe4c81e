package sheet

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/unscatty/PianoViaR-sub000/midi"
)

// Options are the note options of a song plus how its sheet music is laid
// out.
type Options struct {
	midi.Options
	// ScrollVert lays staffs out one under the other, each page wide.
	// Otherwise each track is a single long staff.
	ScrollVert      bool
	ShowNoteLetters NoteNames
	ShowLyrics      bool
	ShowMeasures    bool
	// Key overrides the guessed key signature.
	Key *KeySignature
	// Clefs builds the per measure clefs of a track; NewClefMeasures by
	// default.
	Clefs ClefFactory
}

func NewOptions(f *midi.File) Options {
	return Options{
		Options:    midi.NewOptions(f),
		ScrollVert: true,
		ShowLyrics: true,
	}
}

// ErrMeasure is returned for a time signature whose measures have no length.
var ErrMeasure = errors.New("sheet: empty measure")

// SheetMusic is the laid out score of a song: staffs in display order, the
// staffs of each track interleaved.
type SheetMusic struct {
	Title      string
	Staffs     []*Staff
	Key        *KeySignature
	Time       midi.TimeSignature
	NumTracks  int
	Dimensions Dimensions
}

// Create lays out the sheet music of f. f is not modified.
func Create(f *midi.File, opts Options, d Dimensions) (*SheetMusic, error) {
	tracks, err := f.ChangeMidiNotes(opts.Options)
	if err != nil {
		return nil, errors.Wrap(err, "error changing notes")
	}
	time := f.Time
	if opts.Time != nil {
		time = *opts.Time
	}
	if time.Measure <= 0 || time.Quarter <= 0 {
		return nil, errors.Wrapf(ErrMeasure, "%d pulses per measure", time.Measure)
	}

	var key *KeySignature
	if opts.Key != nil {
		key, err = NewKeySignature(opts.Key.NumSharps, opts.Key.NumFlats)
		if err != nil {
			return nil, err
		}
	} else {
		key = guessKey(tracks)
	}
	newClefs := opts.Clefs
	if newClefs == nil {
		newClefs = NewClefMeasures
	}

	lastStart := f.EndTime() + opts.ShiftTime
	symbols := make([][]MusicSymbol, len(tracks))
	for i, t := range tracks {
		key.Reset()
		clefs := newClefs(t.Notes, time.Measure)
		chords, err := createChords(t.Notes, key, time, clefs, opts.ShowNoteLetters, d)
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", i)
		}
		symbols[i] = createSymbols(chords, clefs, time, lastStart, d)
	}
	key.Reset()

	var lyrics [][]*LyricSymbol
	if opts.ShowLyrics {
		lyrics = getLyrics(tracks, d)
	}

	alignSymbols(symbols, NewSymbolWidths(symbols, lyrics), opts.ShowMeasures, d)
	staffs := createStaffs(symbols, key, opts, time.Measure, d)
	createAllBeamedChords(symbols, time)
	if lyrics != nil {
		for _, s := range staffs {
			s.AddLyrics(lyrics[s.Track])
		}
	}
	// Beams move stem ends, which can change staff heights.
	for _, s := range staffs {
		s.CalculateHeight()
	}

	log.WithFields(log.Fields{
		"file":   f.FileName,
		"tracks": len(tracks),
		"staffs": len(staffs),
		"key":    key.String(),
	}).Debug("created sheet music")

	return &SheetMusic{
		Title:      f.Title(),
		Staffs:     staffs,
		Key:        key,
		Time:       time,
		NumTracks:  len(tracks),
		Dimensions: d,
	}, nil
}

func guessKey(tracks []*midi.Track) *KeySignature {
	var numbers []int
	for _, t := range tracks {
		for _, n := range t.Notes {
			numbers = append(numbers, n.Number)
		}
	}
	return Guess(numbers)
}

/*
Pages groups the staffs into pages, the first one starting below the title.
With two tracks the staffs go in pairs that are never split across pages, so
both hands of a piece stay together.
*/
func (s *SheetMusic) Pages() [][]*Staff {
	d := s.Dimensions
	group := 1
	if s.NumTracks == 2 && len(s.Staffs)%2 == 0 {
		group = 2
	}

	var pages [][]*Staff
	var page []*Staff
	height := d.TitleHeight
	for i := 0; i < len(s.Staffs); i += group {
		end := i + group
		if end > len(s.Staffs) {
			end = len(s.Staffs)
		}
		staffs := s.Staffs[i:end]
		h := 0
		for _, staff := range staffs {
			h += staff.Height()
		}
		if height+h > d.PageHeight && len(page) > 0 {
			pages = append(pages, page)
			page, height = nil, 0
		}
		page = append(page, staffs...)
		height += h
	}
	if len(page) > 0 {
		pages = append(pages, page)
	}
	return pages
}

// Width is the width of the widest staff.
func (s *SheetMusic) Width() int {
	w := 0
	for _, staff := range s.Staffs {
		if staff.Width() > w {
			w = staff.Width()
		}
	}
	return w
}

// Height is the height of all staffs stacked below the title.
func (s *SheetMusic) Height() int {
	h := s.Dimensions.TitleHeight
	for _, staff := range s.Staffs {
		h += staff.Height()
	}
	return h
}
