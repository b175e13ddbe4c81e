package model

import (
	"github.com/unscatty/PianoViaR-sub000/sheet"
)

type NoteView struct {
	Number   int    `json:"number"`
	Note     string `json:"note"`
	Duration string `json:"duration"`
	Accid    string `json:"accid,omitempty"`
	Name     string `json:"name,omitempty"`
}

// StemView is one stem of a chord. A beamed group's first stem carries the
// group: PairEnd is where the beam ends, WidthToPair pixels to the right.
type StemView struct {
	Direction   string `json:"direction"`
	Side        string `json:"side"`
	Duration    string `json:"duration"`
	Top         string `json:"top"`
	Bottom      string `json:"bottom"`
	End         string `json:"end"`
	Overlap     bool   `json:"overlap,omitempty"`
	Receiver    bool   `json:"receiver,omitempty"`
	PairEnd     string `json:"pair_end,omitempty"`
	WidthToPair int    `json:"width_to_pair,omitempty"`
}

// SymbolView is a flattened MusicSymbol. Only the fields of its Kind are set.
type SymbolView struct {
	Kind        string     `json:"kind"`
	Start       int        `json:"start"`
	Width       int        `json:"width"`
	Above       int        `json:"above"`
	Below       int        `json:"below"`
	Notes       []NoteView `json:"notes,omitempty"`
	Stem        string     `json:"stem,omitempty"`
	Beamed      bool       `json:"beamed,omitempty"`
	Stems       []StemView `json:"stems,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Clef        string     `json:"clef,omitempty"`
	Measure     int        `json:"measure,omitempty"`
	Numerator   int        `json:"numerator,omitempty"`
	Denominator int        `json:"denominator,omitempty"`
}

type LyricView struct {
	Start int    `json:"start"`
	Text  string `json:"text"`
	X     int    `json:"x"`
}

type StaffView struct {
	Track   int          `json:"track"`
	Clef    string       `json:"clef"`
	Start   int          `json:"start"`
	End     int          `json:"end"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Keys    []string     `json:"keys,omitempty"`
	Symbols []SymbolView `json:"symbols"`
	Lyrics  []LyricView  `json:"lyrics,omitempty"`
}

type SheetView struct {
	Title     string        `json:"title"`
	Key       string        `json:"key"`
	Time      string        `json:"time"`
	NumTracks int           `json:"num_tracks"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Pages     [][]StaffView `json:"pages"`
}

func NewSheetView(s *sheet.SheetMusic) *SheetView {
	v := &SheetView{
		Title:     s.Title,
		Key:       s.Key.String(),
		Time:      s.Time.String(),
		NumTracks: s.NumTracks,
		Width:     s.Width(),
		Height:    s.Height(),
	}
	for _, page := range s.Pages() {
		staffs := make([]StaffView, 0, len(page))
		for _, staff := range page {
			staffs = append(staffs, newStaffView(staff))
		}
		v.Pages = append(v.Pages, staffs)
	}
	return v
}

func newStaffView(s *sheet.Staff) StaffView {
	v := StaffView{
		Track:  s.Track,
		Start:  s.StartTime(),
		End:    s.EndTime(),
		Width:  s.Width(),
		Height: s.Height(),
	}
	if s.Clef != nil {
		v.Clef = s.Clef.Clef.String()
	}
	for _, a := range s.Keys {
		v.Keys = append(v.Keys, a.Accid.String()+" "+a.Note.String())
	}
	v.Symbols = make([]SymbolView, 0, len(s.Symbols))
	for _, sym := range s.Symbols {
		v.Symbols = append(v.Symbols, newSymbolView(s, sym))
	}
	for _, l := range s.Lyrics {
		v.Lyrics = append(v.Lyrics, LyricView{Start: l.StartTime, Text: l.Text, X: l.X})
	}
	return v
}

func newSymbolView(staff *sheet.Staff, sym sheet.MusicSymbol) SymbolView {
	v := SymbolView{
		Kind:  sym.Kind().String(),
		Start: sym.StartTime(),
		Width: sym.Width(),
		Above: sym.AboveStaff(),
		Below: sym.BelowStaff(),
	}
	switch s := sym.(type) {
	case *sheet.ChordSymbol:
		for i, n := range s.Notes {
			nv := NoteView{Number: n.Number, Note: n.WhiteNote.String(), Duration: n.Duration.String()}
			if n.Accid != sheet.AccidNone {
				nv.Accid = n.Accid.String()
			}
			if i < len(s.Names) {
				nv.Name = s.Names[i]
			}
			v.Notes = append(v.Notes, nv)
		}
		if stem := s.Stem(); stem != nil {
			v.Stem = stem.Direction.String()
			v.Beamed = stem.IsBeam()
		}
		for _, stem := range []*sheet.Stem{s.Stem1, s.Stem2} {
			if stem != nil {
				v.Stems = append(v.Stems, newStemView(stem))
			}
		}
	case *sheet.RestSymbol:
		v.Duration = s.Duration.String()
	case *sheet.ClefSymbol:
		v.Clef = s.Clef.String()
	case *sheet.BarSymbol:
		v.Measure = staff.MeasureNumber(s)
	case *sheet.TimeSigSymbol:
		v.Numerator, v.Denominator = s.Numerator, s.Denominator
	}
	return v
}

func newStemView(s *sheet.Stem) StemView {
	v := StemView{
		Direction: s.Direction.String(),
		Side:      s.Side.String(),
		Duration:  s.Duration.String(),
		Top:       s.Top.String(),
		Bottom:    s.Bottom.String(),
		End:       s.End.String(),
		Overlap:   s.NotesOverlap,
		Receiver:  s.Receiver,
	}
	if s.Pair != nil {
		v.PairEnd = s.Pair.End.String()
		v.WidthToPair = s.WidthToPair
	}
	return v
}
