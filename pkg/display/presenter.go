package display

import (
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/james-see/miditoolbox/pkg/message"
	"github.com/james-see/miditoolbox/pkg/tempo"
)

// Presenter formats events for one route. It owns that route's tempo
// tracker, so a Presenter must not be shared between routes.
type Presenter struct {
	w          io.Writer
	palette    Palette
	showTiming bool
	tracker    *tempo.Tracker

	bpm atomic.Uint64 // math.Float64bits of the last reported tempo
}

// NewPresenter creates a presenter writing lines to w
func NewPresenter(w io.Writer, palette Palette, showTiming bool) *Presenter {
	return &Presenter{
		w:          w,
		palette:    palette,
		showTiming: showTiming,
		tracker:    tempo.NewTracker(tempo.DefaultWindow),
	}
}

// Show writes the line for ev, if it has one
func (p *Presenter) Show(ts uint64, port int, ev message.Event) (bool, error) {
	line, ok := p.Format(ts, port, ev)
	if !ok {
		return false, nil
	}
	if _, err := fmt.Fprintln(p.w, line); err != nil {
		return true, fmt.Errorf("write monitor line: %w", err)
	}
	return true, nil
}

// Format returns the monitor line for ev. Timing clocks never produce
// their own line; once the tempo changes they produce a BPM line.
// System events are hidden unless timing display is enabled.
func (p *Presenter) Format(ts uint64, port int, ev message.Event) (string, bool) {
	switch e := ev.(type) {
	case message.NoteOn:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("key=%d velocity=%d", e.Key, e.Velocity)), true
	case message.NoteOff:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("key=%d velocity=%d", e.Key, e.Velocity)), true
	case message.KeyAftertouch:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("key=%d pressure=%d", e.Key, e.Pressure)), true
	case message.ControlChange:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("controller=%d value=%d", e.Controller, e.Value)), true
	case message.ProgramChange:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("program=%d", e.Program)), true
	case message.ChannelAftertouch:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("pressure=%d", e.Pressure)), true
	case message.Pitchbend:
		return p.voice(ts, port, e.Channel, ev.Kind(), fmt.Sprintf("pitch=%d", e.Value)), true
	case message.TimingClock:
		return p.clock(ts)
	case message.SongPosition:
		if !p.showTiming {
			return "", false
		}
		return p.system(ts, port, ev.Kind(), fmt.Sprintf("position=%d", e.Position)), true
	case message.Start, message.Continue, message.Stop, message.ActiveSensing, message.Reset:
		if !p.showTiming {
			return "", false
		}
		return p.system(ts, port, ev.Kind(), ""), true
	}
	return "", false
}

// Tempo returns the last reported tempo, if any. Safe to call from
// any goroutine.
func (p *Presenter) Tempo() (float64, bool) {
	bits := p.bpm.Load()
	if bits == 0 {
		return 0, false
	}
	return math.Float64frombits(bits), true
}

func (p *Presenter) clock(ts uint64) (string, bool) {
	if !p.showTiming {
		return "", false
	}
	bpm, changed := p.tracker.Pulse(ts)
	if !changed {
		return "", false
	}
	p.bpm.Store(math.Float64bits(bpm))
	return fmt.Sprintf("%d BPM %.1f", ts, bpm), true
}

func (p *Presenter) voice(ts uint64, port int, channel uint8, kind message.Kind, fields string) string {
	return fmt.Sprintf("%d Port %d Ch %d %s %s", ts, port, channel+1, p.palette.param(kind.String()), p.palette.value(fields))
}

func (p *Presenter) system(ts uint64, port int, kind message.Kind, fields string) string {
	if fields == "" {
		return fmt.Sprintf("%d Port %d %s", ts, port, p.palette.param(kind.String()))
	}
	return fmt.Sprintf("%d Port %d %s %s", ts, port, p.palette.param(kind.String()), p.palette.value(fields))
}

// SyncWriter serializes writes from concurrent routes onto one writer
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}
