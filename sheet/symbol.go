package sheet

import "github.com/unscatty/PianoViaR-sub000/midi"

// SymbolKind tags the concrete type of a MusicSymbol for renderers that
// build their own primitives.
type SymbolKind int

const (
	KindChord SymbolKind = iota
	KindRest
	KindBar
	KindClef
	KindAccid
	KindTimeSig
	KindBlank
)

var kindNames = [...]string{"chord", "rest", "bar", "clef", "accid", "timesig", "blank"}

func (k SymbolKind) String() string {
	return kindNames[k]
}

/*
MusicSymbol is one drawable item of a staff. MinWidth is what the symbol
needs; Width is what it was given after aligning tracks and justifying
staffs. AboveStaff and BelowStaff are the pixels it extends past the staff
lines.
*/
type MusicSymbol interface {
	StartTime() int
	MinWidth() int
	Width() int
	SetWidth(width int)
	AboveStaff() int
	BelowStaff() int
	Kind() SymbolKind
}

type baseSymbol struct {
	start int
	width int
}

func (b *baseSymbol) StartTime() int     { return b.start }
func (b *baseSymbol) Width() int         { return b.width }
func (b *baseSymbol) SetWidth(width int) { b.width = width }
func (b *baseSymbol) AboveStaff() int    { return 0 }
func (b *baseSymbol) BelowStaff() int    { return 0 }

// BarSymbol is the vertical line at the start of a measure.
type BarSymbol struct {
	baseSymbol
	minWidth int
}

func NewBarSymbol(start int, d Dimensions) *BarSymbol {
	w := 2 * d.LineSpace
	return &BarSymbol{baseSymbol{start, w}, w}
}

func (b *BarSymbol) MinWidth() int    { return b.minWidth }
func (b *BarSymbol) Kind() SymbolKind { return KindBar }

// BlankSymbol holds the place of a start time this track has nothing at.
type BlankSymbol struct {
	baseSymbol
}

func NewBlankSymbol(start, width int) *BlankSymbol {
	return &BlankSymbol{baseSymbol{start, width}}
}

func (b *BlankSymbol) MinWidth() int    { return 0 }
func (b *BlankSymbol) Kind() SymbolKind { return KindBlank }

type RestSymbol struct {
	baseSymbol
	Duration midi.NoteDuration
	minWidth int
}

func NewRestSymbol(start int, duration midi.NoteDuration, d Dimensions) *RestSymbol {
	w := 2*d.NoteHeight + d.NoteHeight/2
	return &RestSymbol{baseSymbol{start, w}, duration, w}
}

func (r *RestSymbol) MinWidth() int    { return r.minWidth }
func (r *RestSymbol) Kind() SymbolKind { return KindRest }

// ClefSymbol is drawn at the start of every staff, and small within a staff
// where the clef changes.
type ClefSymbol struct {
	baseSymbol
	Clef  Clef
	Small bool
	d     Dimensions
}

func NewClefSymbol(clef Clef, start int, small bool, d Dimensions) *ClefSymbol {
	c := &ClefSymbol{baseSymbol: baseSymbol{start: start}, Clef: clef, Small: small, d: d}
	c.width = c.MinWidth()
	return c
}

func (c *ClefSymbol) MinWidth() int {
	if c.Small {
		return c.d.NoteWidth * 2
	}
	return c.d.NoteWidth * 3
}

// AboveStaff is two note heights for a full treble clef. Small clefs fit
// inside the staff.
func (c *ClefSymbol) AboveStaff() int {
	if c.Clef == Treble && !c.Small {
		return c.d.NoteHeight * 2
	}
	return 0
}

func (c *ClefSymbol) BelowStaff() int {
	if c.Clef == Treble && !c.Small {
		return c.d.NoteHeight * 2
	}
	return 0
}

func (c *ClefSymbol) Kind() SymbolKind { return KindClef }

// AccidSymbol is a sharp, flat or natural, before a note or in a key
// signature.
type AccidSymbol struct {
	baseSymbol
	Accid Accid
	Note  WhiteNote
	Clef  Clef
	d     Dimensions
}

func NewAccidSymbol(accid Accid, note WhiteNote, clef Clef, d Dimensions) *AccidSymbol {
	a := &AccidSymbol{Accid: accid, Note: note, Clef: clef, d: d}
	a.start = -1
	a.width = a.MinWidth()
	return a
}

func (a *AccidSymbol) MinWidth() int {
	return 3 * a.d.NoteHeight / 2
}

func (a *AccidSymbol) AboveStaff() int {
	dist := a.Clef.Top().Dist(a.Note) * a.d.NoteHeight / 2
	switch a.Accid {
	case Sharp, Natural:
		dist -= a.d.NoteHeight
	case Flat:
		dist -= 3 * a.d.NoteHeight / 2
	}
	if dist < 0 {
		return -dist
	}
	return 0
}

func (a *AccidSymbol) BelowStaff() int {
	dist := a.Clef.Bottom().Dist(a.Note)*a.d.NoteHeight/2 + a.d.NoteHeight
	if a.Accid == Sharp || a.Accid == Natural {
		dist += a.d.NoteHeight
	}
	if dist > 0 {
		return dist
	}
	return 0
}

func (a *AccidSymbol) Kind() SymbolKind { return KindAccid }

// TimeSigSymbol shows the meter at the start of the first staff. Meters
// with other numbers than these are not drawn.
type TimeSigSymbol struct {
	baseSymbol
	Numerator   int
	Denominator int
	d           Dimensions
}

var drawableMeter = map[int]bool{2: true, 3: true, 4: true, 6: true, 8: true, 9: true, 12: true}

func NewTimeSigSymbol(numerator, denominator int, d Dimensions) *TimeSigSymbol {
	t := &TimeSigSymbol{Numerator: numerator, Denominator: denominator, d: d}
	t.width = t.MinWidth()
	return t
}

// CanDraw reports whether both numbers of the meter have a glyph.
func (t *TimeSigSymbol) CanDraw() bool {
	return drawableMeter[t.Numerator] && drawableMeter[t.Denominator]
}

func (t *TimeSigSymbol) MinWidth() int {
	if t.CanDraw() {
		return 2 * t.d.NoteHeight
	}
	return 0
}

func (t *TimeSigSymbol) Kind() SymbolKind { return KindTimeSig }
