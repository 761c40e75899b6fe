// Package device is the boundary to the MIDI ports of the host system
package device

import (
	"errors"
	"fmt"
)

// Error definitions for port lookup and connection failures
var (
	ErrPortOutOfRange = errors.New("port index out of range")
	ErrOpenPort       = errors.New("error opening MIDI port")
	ErrListen         = errors.New("error listening on MIDI port")
	ErrEnumTimeout    = errors.New("timed out enumerating MIDI ports")
)

// PortInfo describes one numbered port
type PortInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

func (p PortInfo) String() string {
	return fmt.Sprintf("%d: %s", p.Number, p.Name)
}

// Handler receives one message with its timestamp in microseconds.
// Calls for the same input port never overlap.
type Handler func(ts uint64, msg []byte)

// Sender delivers raw messages to an output port
type Sender interface {
	Send(msg []byte) error
	Close() error
}

// Driver enumerates and opens MIDI ports
type Driver interface {
	Inputs() ([]PortInfo, error)
	Outputs() ([]PortInfo, error)
	Listen(port int, fn Handler) (stop func(), err error)
	OpenOutput(port int) (Sender, error)
	Close() error
}

func checkRange(port, count int, dir string) error {
	if port < 0 || port >= count {
		return fmt.Errorf("%w: %s %d (have %d)", ErrPortOutOfRange, dir, port, count)
	}
	return nil
}
