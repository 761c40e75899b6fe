// Package message decodes raw MIDI short messages into typed events
package message

// Status byte high nibbles for channel voice messages
const (
	StatusNoteOff           = 0x80
	StatusNoteOn            = 0x90
	StatusKeyAftertouch     = 0xA0
	StatusControlChange     = 0xB0
	StatusProgramChange     = 0xC0
	StatusChannelAftertouch = 0xD0
	StatusPitchbend         = 0xE0
	StatusSystem            = 0xF0
)

// System status bytes
const (
	StatusSongPosition  = 0xF2
	StatusTimingClock   = 0xF8
	StatusStart         = 0xFA
	StatusContinue      = 0xFB
	StatusStop          = 0xFC
	StatusActiveSensing = 0xFE
	StatusReset         = 0xFF
)

// PitchbendCenter is the raw 14-bit value of a centered pitch wheel
const PitchbendCenter = 0x2000

// Kind identifies the variant of a decoded event
type Kind uint8

const (
	KindNoteOff Kind = iota
	KindNoteOn
	KindKeyAftertouch
	KindControlChange
	KindProgramChange
	KindChannelAftertouch
	KindPitchbend
	KindSongPosition
	KindTimingClock
	KindStart
	KindContinue
	KindStop
	KindActiveSensing
	KindReset
)

var kindNames = [...]string{
	KindNoteOff:           "NoteOff",
	KindNoteOn:            "NoteOn",
	KindKeyAftertouch:     "Aftertouch",
	KindControlChange:     "ControlChg",
	KindProgramChange:     "ProgramChg",
	KindChannelAftertouch: "ChannelAftertouch",
	KindPitchbend:         "Pitchbend",
	KindSongPosition:      "SongPosition",
	KindTimingClock:       "TimingClock",
	KindStart:             "Start",
	KindContinue:          "Continue",
	KindStop:              "Stop",
	KindActiveSensing:     "ActiveSensing",
	KindReset:             "Reset",
}

// String returns the display name of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsSystem reports whether the kind carries no channel
func (k Kind) IsSystem() bool {
	return k >= KindSongPosition
}

// Event is a decoded message. The set of implementations is closed:
// only the types in this package satisfy it.
type Event interface {
	Kind() Kind
	event()
}

// NoteOff releases a key
type NoteOff struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// NoteOn strikes a key
type NoteOn struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// KeyAftertouch is polyphonic key pressure
type KeyAftertouch struct {
	Channel  uint8
	Key      uint8
	Pressure uint8
}

// ControlChange sets a controller value
type ControlChange struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// ProgramChange selects a program
type ProgramChange struct {
	Channel uint8
	Program uint8
}

// ChannelAftertouch is channel-wide pressure
type ChannelAftertouch struct {
	Channel  uint8
	Pressure uint8
}

// Pitchbend carries a zero-centered bend in -8192..8191
type Pitchbend struct {
	Channel uint8
	Value   int16
}

// SongPosition is the song position pointer in 0..16383
type SongPosition struct {
	Position uint16
}

// TimingClock is sent 24 times per quarter note
type TimingClock struct{}

// Start starts playback from the beginning
type Start struct{}

// Continue resumes playback
type Continue struct{}

// Stop halts playback
type Stop struct{}

// ActiveSensing is a keep-alive
type ActiveSensing struct{}

// Reset asks receivers to return to power-up state
type Reset struct{}

func (NoteOff) Kind() Kind           { return KindNoteOff }
func (NoteOn) Kind() Kind            { return KindNoteOn }
func (KeyAftertouch) Kind() Kind     { return KindKeyAftertouch }
func (ControlChange) Kind() Kind     { return KindControlChange }
func (ProgramChange) Kind() Kind     { return KindProgramChange }
func (ChannelAftertouch) Kind() Kind { return KindChannelAftertouch }
func (Pitchbend) Kind() Kind         { return KindPitchbend }
func (SongPosition) Kind() Kind      { return KindSongPosition }
func (TimingClock) Kind() Kind       { return KindTimingClock }
func (Start) Kind() Kind             { return KindStart }
func (Continue) Kind() Kind          { return KindContinue }
func (Stop) Kind() Kind              { return KindStop }
func (ActiveSensing) Kind() Kind     { return KindActiveSensing }
func (Reset) Kind() Kind             { return KindReset }

func (NoteOff) event()           {}
func (NoteOn) event()            {}
func (KeyAftertouch) event()     {}
func (ControlChange) event()     {}
func (ProgramChange) event()     {}
func (ChannelAftertouch) event() {}
func (Pitchbend) event()         {}
func (SongPosition) event()      {}
func (TimingClock) event()       {}
func (Start) event()             {}
func (Continue) event()          {}
func (Stop) event()              {}
func (ActiveSensing) event()     {}
func (Reset) event()             {}
