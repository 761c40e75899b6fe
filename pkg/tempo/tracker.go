package tempo

import "math"

const (
	// PulsesPerQuarter is the MIDI timing clock resolution
	PulsesPerQuarter = 24
	// DefaultWindow averages over two quarter notes
	DefaultWindow = 2 * PulsesPerQuarter

	usecPerMinute = 60_000_000.0
)

// Tracker turns timing clock timestamps into a smoothed tempo. It
// reports only once its window is full, and then only when the
// average rounded to one decimal changes.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	window   *Window
	tracking bool
	last     uint64

	reported    bool
	reportedBPM float64
}

// NewTracker creates a tracker averaging over size pulse intervals
func NewTracker(size int) *Tracker {
	return &Tracker{window: NewWindow(size)}
}

// Pulse records a timing clock at ts microseconds. It returns the new
// rounded tempo and true when a change should be reported.
func (t *Tracker) Pulse(ts uint64) (bpm float64, changed bool) {
	if !t.tracking {
		t.tracking = true
		t.last = ts
		return 0, false
	}

	prev := t.last
	t.last = ts
	if ts <= prev {
		// duplicate or out-of-order stamp; resync on it
		return 0, false
	}

	quarter := float64(ts-prev) * PulsesPerQuarter
	t.window.Add(usecPerMinute / quarter)

	if !t.window.Full() {
		return 0, false
	}

	rounded := math.Round(t.window.Mean()*10) / 10
	if t.reported && rounded == t.reportedBPM {
		return rounded, false
	}
	t.reported = true
	t.reportedBPM = rounded
	return rounded, true
}

// BPM returns the last reported tempo, if any
func (t *Tracker) BPM() (float64, bool) {
	return t.reportedBPM, t.reported
}
