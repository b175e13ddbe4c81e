package sheet

/*
Staff is one row of a track's symbols, drawn after a clef and the key
signature. Symbols never split a measure across two staffs. Width is the page
width when scrolling vertically; then the symbols are spread to fill it.
*/
type Staff struct {
	Symbols     []MusicSymbol
	Lyrics      []*LyricSymbol
	Clef        *ClefSymbol
	Keys        []*AccidSymbol
	Track       int
	TotalTracks int
	// ShowMeasures is set on the first track's staffs when measure numbers
	// are drawn above the bars.
	ShowMeasures  bool
	MeasureLength int
	KeySigWidth   int

	width  int
	height int
	ytop   int
	start  int
	end    int
	d      Dimensions
}

func newStaff(symbols []MusicSymbol, key *KeySignature, opts Options, track, totalTracks, measureLen int, d Dimensions) *Staff {
	s := &Staff{
		Symbols:       symbols,
		Track:         track,
		TotalTracks:   totalTracks,
		ShowMeasures:  opts.ShowMeasures && track == 0,
		MeasureLength: measureLen,
		KeySigWidth:   keySignatureWidth(key, d),
		d:             d,
	}
	clef := findClef(symbols)
	s.Clef = NewClefSymbol(clef, 0, false, d)
	s.Keys = key.GetSymbols(clef, d)
	s.calculateWidth(opts.ScrollVert)
	s.CalculateHeight()
	s.calculateStartEndTime()
	s.fullJustify()
	return s
}

// keySignatureWidth is the room taken by the clef and key signature at the
// start of a staff.
func keySignatureWidth(key *KeySignature, d Dimensions) int {
	result := NewClefSymbol(Treble, 0, false, d).MinWidth()
	for _, a := range key.GetSymbols(Treble, d) {
		result += a.MinWidth()
	}
	return result + d.LeftMargin + 5
}

func findClef(symbols []MusicSymbol) Clef {
	for _, s := range symbols {
		if c, ok := s.(*ChordSymbol); ok {
			return c.Clef
		}
	}
	return Treble
}

func (s *Staff) Width() int     { return s.width }
func (s *Staff) Height() int    { return s.height }
func (s *Staff) YTop() int      { return s.ytop }
func (s *Staff) StartTime() int { return s.start }
func (s *Staff) EndTime() int   { return s.end }

// CalculateHeight sizes the staff to the symbols reaching furthest above and
// below it. Beaming changes stems, so it is called again after.
func (s *Staff) CalculateHeight() {
	above, below := s.Clef.AboveStaff(), s.Clef.BelowStaff()
	for _, sym := range s.Symbols {
		if sym.AboveStaff() > above {
			above = sym.AboveStaff()
		}
		if sym.BelowStaff() > below {
			below = sym.BelowStaff()
		}
	}
	if s.ShowMeasures && above < s.d.NoteHeight*3 {
		above = s.d.NoteHeight * 3
	}
	s.ytop = above + s.d.NoteHeight
	s.height = s.d.NoteHeight*5 + s.ytop + below
	if s.Lyrics != nil {
		s.height += 12
	}
	// Extra space between the last track and the first.
	if s.Track == s.TotalTracks-1 {
		s.height += s.d.NoteHeight * 3
	}
}

func (s *Staff) calculateWidth(scrollVert bool) {
	if scrollVert {
		s.width = s.d.PageWidth
		return
	}
	s.width = s.KeySigWidth
	for _, sym := range s.Symbols {
		s.width += sym.Width()
	}
}

func (s *Staff) calculateStartEndTime() {
	s.start, s.end = 0, 0
	if len(s.Symbols) == 0 {
		return
	}
	s.start = s.Symbols[0].StartTime()
	for _, sym := range s.Symbols {
		if sym.StartTime() > s.end {
			s.end = sym.StartTime()
		}
		if c, ok := sym.(*ChordSymbol); ok && c.EndTime() > s.end {
			s.end = c.EndTime()
		}
	}
}

// fullJustify spreads the leftover page width evenly over the start times of
// the staff, at most two note heights each.
func (s *Staff) fullJustify() {
	if s.width != s.d.PageWidth {
		return
	}
	total, groups := s.KeySigWidth, 0
	for i := 0; i < len(s.Symbols); {
		start := s.Symbols[i].StartTime()
		groups++
		for i < len(s.Symbols) && s.Symbols[i].StartTime() == start {
			total += s.Symbols[i].Width()
			i++
		}
	}
	if groups == 0 {
		return
	}
	extra := (s.d.PageWidth - total - 1) / groups
	if extra > s.d.NoteHeight*2 {
		extra = s.d.NoteHeight * 2
	}
	if extra <= 0 {
		return
	}
	for i := 0; i < len(s.Symbols); {
		start := s.Symbols[i].StartTime()
		s.Symbols[i].SetWidth(s.Symbols[i].Width() + extra)
		for i < len(s.Symbols) && s.Symbols[i].StartTime() == start {
			i++
		}
	}
}

// AddLyrics keeps the lyrics that fall within the staff and places them
// under their symbols.
func (s *Staff) AddLyrics(lyrics []*LyricSymbol) {
	s.Lyrics = nil
	x, index := 0, 0
	for _, l := range lyrics {
		if l.StartTime < s.start {
			continue
		}
		if l.StartTime > s.end {
			break
		}
		for index < len(s.Symbols) && s.Symbols[index].StartTime() < l.StartTime {
			x += s.Symbols[index].Width()
			index++
		}
		placed := *l
		placed.X = x
		if index < len(s.Symbols) {
			if _, ok := s.Symbols[index].(*BarSymbol); ok {
				placed.X += s.d.NoteWidth
			}
		}
		s.Lyrics = append(s.Lyrics, &placed)
	}
}

// MeasureNumber is the one based number of the measure a bar starts.
func (s *Staff) MeasureNumber(bar *BarSymbol) int {
	return bar.StartTime()/s.MeasureLength + 1
}
