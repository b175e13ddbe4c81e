package midi

const (
	msbMask       = 1 << 7
	sevenBitMask  = 0x7F
	highOrderMask = 0xF0
	lowOrderMask  = 0x0F
)

// Channel voice event codes. The low nibble of the status byte is the channel.
const (
	EventNoteOff         = 0x80
	EventNoteOn          = 0x90
	EventKeyPressure     = 0xA0
	EventControlChange   = 0xB0
	EventProgramChange   = 0xC0
	EventChannelPressure = 0xD0
	EventPitchBend       = 0xE0
	SysexEvent1          = 0xF0
	SysexEvent2          = 0xF7
	MetaEvent            = 0xFF
)

// Meta event subtypes.
const (
	MetaEventSequence      = 0x0
	MetaEventText          = 0x1
	MetaEventCopyright     = 0x2
	MetaEventSequenceName  = 0x3
	MetaEventInstrument    = 0x4
	MetaEventLyric         = 0x5
	MetaEventMarker        = 0x6
	MetaEventEndOfTrack    = 0x2F
	MetaEventTempo         = 0x51
	MetaEventSMPTEOffset   = 0x54
	MetaEventTimeSignature = 0x58
	MetaEventKeySignature  = 0x59
)

// PercussionChannel carries drum kits by General MIDI convention.
const PercussionChannel = 9

/*
Event is a single MIDI or meta event of a track. Only the fields relevant to
EventFlag are meaningful: NoteNumber and Velocity for note events, ControlNum
and ControlValue for controllers, MetaEvent and Value for meta events, etc.
*/
type Event struct {
	DeltaTime    int
	StartTime    int
	HasEventFlag bool
	EventFlag    byte
	Channel      byte
	NoteNumber   byte
	Velocity     byte
	Instrument   byte
	KeyPressure  byte
	ChanPressure byte
	ControlNum   byte
	ControlValue byte
	PitchBend    int
	Numerator    byte
	Denominator  byte
	Tempo        int
	MetaEvent    byte
	MetaLength   int
	Value        []byte
}

func (e Event) Clone() Event {
	if e.Value != nil {
		e.Value = append([]byte(nil), e.Value...)
	}
	return e
}

func (e Event) IsNote() bool {
	return e.EventFlag == EventNoteOn || e.EventFlag == EventNoteOff
}

// NewTempoEvent builds a tempo meta event at time zero.
func NewTempoEvent(tempo int) Event {
	return Event{
		HasEventFlag: true,
		EventFlag:    MetaEvent,
		MetaEvent:    MetaEventTempo,
		MetaLength:   3,
		Tempo:        tempo,
	}
}

func cloneEvents(lists [][]Event) [][]Event {
	result := make([][]Event, len(lists))
	for i, list := range lists {
		result[i] = make([]Event, len(list))
		for j, e := range list {
			result[i][j] = e.Clone()
		}
	}
	return result
}
