package cmd

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/unscatty/PianoViaR-sub000/midi"
	"github.com/unscatty/PianoViaR-sub000/sheet"
)

var noteNames = map[string]sheet.NoteNames{
	"none":           sheet.NoteNameNone,
	"letter":         sheet.NoteNameLetter,
	"fixed-doremi":   sheet.NoteNameFixedDoReMi,
	"movable-doremi": sheet.NoteNameMovableDoReMi,
	"fixed-number":   sheet.NoteNameFixedNumber,
	"movable-number": sheet.NoteNameMovableNumber,
}

// layoutFlags are the sheet options set from the command line or a query
// string.
type layoutFlags struct {
	twoStaffs  bool
	horizontal bool
	shift      int
	transpose  int
	combine    int
	letters    string
	measures   bool
	noLyrics   bool
	large      bool
	sharps     int
	flats      int
	hide       []int
}

func (l *layoutFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&l.twoStaffs, "two-staffs", false, "combine all tracks into a treble and a bass staff")
	fs.BoolVar(&l.horizontal, "horizontal", false, "one long staff per track")
	fs.IntVar(&l.shift, "shift", 0, "shift notes by this many pulses")
	fs.IntVar(&l.transpose, "transpose", 0, "transpose by this many semitones")
	fs.IntVar(&l.combine, "combine", midi.DefaultCombineInterval, "milliseconds within which notes form one chord")
	fs.StringVar(&l.letters, "letters", "none", "note names: none, letter, fixed-doremi, movable-doremi, fixed-number, movable-number")
	fs.BoolVar(&l.measures, "measures", false, "number the measures")
	fs.BoolVar(&l.noLyrics, "no-lyrics", false, "leave out lyrics")
	fs.BoolVar(&l.large, "large", false, "large notes")
	fs.IntVar(&l.sharps, "sharps", -1, "key signature sharps, guessed when neither sharps nor flats is set")
	fs.IntVar(&l.flats, "flats", -1, "key signature flats")
	fs.IntSliceVar(&l.hide, "hide", nil, "tracks to leave out")
}

func defaultLayoutFlags() layoutFlags {
	return layoutFlags{combine: midi.DefaultCombineInterval, letters: "none", sharps: -1, flats: -1}
}

func parseLayoutQuery(q url.Values) (layoutFlags, error) {
	l := defaultLayoutFlags()
	bools := map[string]*bool{
		"two_staffs": &l.twoStaffs,
		"horizontal": &l.horizontal,
		"measures":   &l.measures,
		"no_lyrics":  &l.noLyrics,
		"large":      &l.large,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return l, errors.Wrapf(err, "bad %s", name)
			}
			*dst = b
		}
	}
	ints := map[string]*int{
		"shift":     &l.shift,
		"transpose": &l.transpose,
		"combine":   &l.combine,
		"sharps":    &l.sharps,
		"flats":     &l.flats,
	}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return l, errors.Wrapf(err, "bad %s", name)
			}
			*dst = n
		}
	}
	for _, v := range q["hide"] {
		n, err := strconv.Atoi(v)
		if err != nil {
			return l, errors.Wrap(err, "bad hide")
		}
		l.hide = append(l.hide, n)
	}
	if v := q.Get("letters"); v != "" {
		l.letters = v
	}
	return l, nil
}

func (l *layoutFlags) options(f *midi.File) (sheet.Options, error) {
	opts := sheet.NewOptions(f)
	if l.twoStaffs {
		opts.TwoStaffs = true
	}
	opts.ScrollVert = !l.horizontal
	opts.ShiftTime = l.shift
	opts.Transpose = l.transpose
	opts.CombineInterval = l.combine
	opts.ShowMeasures = l.measures
	opts.ShowLyrics = !l.noLyrics

	names, ok := noteNames[l.letters]
	if !ok {
		return opts, errors.Errorf("unknown note names %q", l.letters)
	}
	opts.ShowNoteLetters = names

	if l.sharps >= 0 || l.flats >= 0 {
		key, err := sheet.NewKeySignature(nonNegative(l.sharps), nonNegative(l.flats))
		if err != nil {
			return opts, err
		}
		opts.Key = key
	}
	for _, i := range l.hide {
		if i < 0 || i >= len(opts.Tracks) {
			return opts, errors.Errorf("no track %d", i)
		}
		opts.Tracks[i] = false
	}
	return opts, nil
}

func (l *layoutFlags) dimensions() sheet.Dimensions {
	return sheet.NewDimensions(l.large)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
