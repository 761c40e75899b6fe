package tui

import (
	"strings"
	"sync"
	"sync/atomic"
)

// LineBuffer is an io.Writer that hands complete lines to the monitor.
// Writes never block: when the monitor falls behind, lines are dropped
// and counted.
type LineBuffer struct {
	mu      sync.Mutex
	partial string
	closed  bool
	ch      chan string
	dropped atomic.Uint64
}

// NewLineBuffer creates a buffer holding up to size pending lines
func NewLineBuffer(size int) *LineBuffer {
	return &LineBuffer{ch: make(chan string, size)}
}

func (b *LineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return len(p), nil
	}

	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		select {
		case b.ch <- line:
		default:
			b.dropped.Add(1)
		}
	}
	return len(p), nil
}

// Lines returns the channel of complete lines
func (b *LineBuffer) Lines() <-chan string {
	return b.ch
}

// Dropped returns how many lines were discarded
func (b *LineBuffer) Dropped() uint64 {
	return b.dropped.Load()
}

// Close ends the line stream. Later writes are discarded.
func (b *LineBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
