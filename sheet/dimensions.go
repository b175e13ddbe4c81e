package sheet

// Dimensions are the pixel sizes the layout is computed with. Every layout
// call takes them explicitly.
type Dimensions struct {
	LineWidth   int
	LeftMargin  int
	LineSpace   int
	StaffHeight int
	NoteHeight  int
	NoteWidth   int
	PageWidth   int
	PageHeight  int
	TitleHeight int
	// LetterWidth is the width of one character of lyric or note name text.
	LetterWidth int
}

func NewDimensions(largeNotes bool) Dimensions {
	d := Dimensions{
		LineWidth:   1,
		LeftMargin:  4,
		LineSpace:   5,
		PageWidth:   800,
		PageHeight:  1050,
		TitleHeight: 14,
		LetterWidth: 6,
	}
	if largeNotes {
		d.LineSpace = 7
		d.LetterWidth = 8
	}
	d.StaffHeight = d.LineSpace*4 + d.LineWidth*5
	d.NoteHeight = d.LineSpace + d.LineWidth
	d.NoteWidth = 3 * d.LineSpace / 2
	return d
}
