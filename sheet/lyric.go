package sheet

import "unicode/utf8"

// LyricSymbol is a piece of lyric text drawn below a staff. X is its offset
// from the first symbol of the staff.
type LyricSymbol struct {
	StartTime int
	Text      string
	X         int
	d         Dimensions
}

func NewLyricSymbol(start int, text string, d Dimensions) *LyricSymbol {
	return &LyricSymbol{StartTime: start, Text: text, d: d}
}

func (l *LyricSymbol) MinWidth() int {
	return utf8.RuneCountInString(l.Text)*l.d.LetterWidth + l.d.LetterWidth/2
}
