// Package tempo estimates beats per minute from MIDI timing clock pulses
package tempo

// Window is a fixed-capacity ring of samples with a running sum
type Window struct {
	values []float64
	pos    int
	n      int
	sum    float64
}

// NewWindow creates a window holding up to size samples
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{values: make([]float64, size)}
}

// Add pushes a sample, evicting the oldest once the window is full
func (w *Window) Add(v float64) {
	if w.n == len(w.values) {
		w.sum -= w.values[w.pos]
	} else {
		w.n++
	}
	w.values[w.pos] = v
	w.sum += v
	w.pos++
	if w.pos == len(w.values) {
		w.pos = 0
	}
}

// Len returns the number of valid samples
func (w *Window) Len() int {
	return w.n
}

// Full reports whether every slot holds a sample
func (w *Window) Full() bool {
	return w.n == len(w.values)
}

// Mean returns the average of the valid samples, or 0 when empty
func (w *Window) Mean() float64 {
	if w.n == 0 {
		return 0
	}
	return w.sum / float64(w.n)
}
