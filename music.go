package ffmml

// OscillatorKind names the NES-style waveform a channel drives.
type OscillatorKind int

const (
	OscPulse OscillatorKind = iota
	OscTriangle
	OscNoise
)

// Channel is one named voice: an oscillator kind and an ordered command
// stream. Built once by the parser and never mutated afterwards.
type Channel struct {
	Name       byte
	Oscillator OscillatorKind
	Commands   []Command
}

// Vibrato is the {delay, speed, depth} body of an MP<n> macro, distinct
// from the loop-list envelopes: it parameterizes a single pitch LFO rather
// than a sequence of frame values.
type Vibrato struct {
	Span  Span
	Delay int // frames (1/60s) before the LFO starts
	Speed int // 1..255, LFO frequency is 20/Speed Hz
	Depth int // 0..255, APU-register-domain amplitude
}

// Macro is one numbered macro table entry. Exactly one of the envelope
// fields is populated, selected by Kind.
type MacroKind int

const (
	MacroVolume MacroKind = iota
	MacroPitch
	MacroArpeggio
	MacroTimbre
	MacroVibrato
)

type Macro struct {
	Kind     MacroKind
	Volume   LoopList[int] // MacroVolume:   0..15
	Pitch    LoopList[int] // MacroPitch:    detune values, -128..127
	Arpeggio LoopList[int] // MacroArpeggio: semitone deltas
	Timbre   LoopList[int] // MacroTimbre:   0..255 as parsed; the channel's oscillator accepts 0..3, 0 or 0..1
	Vibrato  Vibrato       // MacroVibrato
}

// MacroTable maps a macro number (0..127) to its definition. Shared by
// reference across every channel player spawned from the same Music;
// channel players only ever read it.
type MacroTable map[int]Macro

// Music is the immutable, parsed program: optional metadata, the declared
// channels, and the shared macro table. It is built once by Parse and may be
// played by any number of independent MusicPlayer instances.
type Music struct {
	Title    string
	Composer string
	Programer string

	HasTitle, HasComposer, HasProgramer bool

	Channels map[byte]*Channel
	Macros   MacroTable
}

func defaultChannels() map[byte]*Channel {
	return map[byte]*Channel{
		'A': {Name: 'A', Oscillator: OscPulse},
		'B': {Name: 'B', Oscillator: OscPulse},
		'C': {Name: 'C', Oscillator: OscTriangle},
		'D': {Name: 'D', Oscillator: OscNoise},
	}
}

// ChannelNames returns the declared channel letters in ascending order.
func (m *Music) ChannelNames() []byte {
	names := make([]byte, 0, len(m.Channels))
	for name := range m.Channels {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
