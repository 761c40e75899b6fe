// Package router filters, remaps and forwards MIDI messages per route
package router

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Channel is a 1-based channel selection; Omni matches every channel
type Channel uint8

// Omni selects all channels
const Omni Channel = 0

// ErrInvalidChannel is returned for channel numbers outside 0-16
var ErrInvalidChannel = errors.New("channel must be omni (0) or 1-16")

// NewChannel validates a user-facing channel number
func NewChannel(n int) (Channel, error) {
	if n < 0 || n > 16 {
		return Omni, fmt.Errorf("%w: got %d", ErrInvalidChannel, n)
	}
	return Channel(n), nil
}

// ParseChannel accepts "", "omni" or a number 0-16
func ParseChannel(s string) (Channel, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "omni" {
		return Omni, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Omni, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
	}
	return NewChannel(n)
}

// IsOmni reports whether c matches every channel
func (c Channel) IsOmni() bool {
	return c == Omni
}

// Index returns the 0-based wire channel. Undefined for Omni.
func (c Channel) Index() uint8 {
	return uint8(c) - 1
}

// Accepts reports whether a message with this status byte passes the
// filter. The low nibble is compared for every status byte, so an exact
// filter only lets through system messages whose sub-code matches.
func (c Channel) Accepts(status byte) bool {
	return c.IsOmni() || status&0x0F == c.Index()
}

func (c Channel) String() string {
	if c.IsOmni() {
		return "omni"
	}
	return strconv.Itoa(int(c))
}

// Config is the immutable description of one route
type Config struct {
	Input         int
	InputChannel  Channel
	Output        *int // nil disables forwarding
	OutputChannel Channel
	Monitor       bool
	ShowTiming    bool
	LogPath       string   // empty disables logging
	Filters       []string // nil selects the default filter chain
}

// Forwarding reports whether the route sends to an output port
func (c Config) Forwarding() bool {
	return c.Output != nil
}

// Validate checks port numbers and channels
func (c Config) Validate() error {
	if c.Input < 0 {
		return fmt.Errorf("input port must be >= 0, got %d", c.Input)
	}
	if c.Output != nil && *c.Output < 0 {
		return fmt.Errorf("output port must be >= 0, got %d", *c.Output)
	}
	if c.InputChannel > 16 {
		return fmt.Errorf("input channel: %w: got %d", ErrInvalidChannel, c.InputChannel)
	}
	if c.OutputChannel > 16 {
		return fmt.Errorf("output channel: %w: got %d", ErrInvalidChannel, c.OutputChannel)
	}
	return nil
}

func (c Config) String() string {
	s := fmt.Sprintf("in %d ch %s", c.Input, c.InputChannel)
	if c.Output != nil {
		s += fmt.Sprintf(" -> out %d ch %s", *c.Output, c.OutputChannel)
	}
	return s
}

// Port returns a pointer to n, for building configs
func Port(n int) *int {
	return &n
}
