package message

import (
	"errors"
	"fmt"
)

// MaxLen is the longest short message the decoder accepts
const MaxLen = 3

var (
	ErrEmpty         = errors.New("empty message")
	ErrTooLong       = errors.New("message longer than 3 bytes")
	ErrUnknownStatus = errors.New("unrecognized status byte")
	ErrDataByte      = errors.New("data byte out of range")
)

// DecodeError describes a message the decoder could not map to an event
type DecodeError struct {
	Data []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode % x: %v", e.Data, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(data []byte, err error) error {
	return &DecodeError{Data: append([]byte(nil), data...), Err: err}
}

// Decode maps a raw message to its typed event. Data bytes the
// message kind expects but the message lacks are read as zero.
func Decode(data []byte) (Event, error) {
	switch {
	case len(data) == 0:
		return nil, decodeError(data, ErrEmpty)
	case len(data) > MaxLen:
		return nil, decodeError(data, ErrTooLong)
	}

	status := data[0]
	if status < StatusNoteOff {
		return nil, decodeError(data, ErrUnknownStatus)
	}

	var d1, d2 uint8
	if len(data) > 1 {
		d1 = data[1]
	}
	if len(data) > 2 {
		d2 = data[2]
	}
	if d1 > 0x7F || d2 > 0x7F {
		return nil, decodeError(data, ErrDataByte)
	}

	channel := status & 0x0F

	switch status & 0xF0 {
	case StatusNoteOff:
		return NoteOff{Channel: channel, Key: d1, Velocity: d2}, nil
	case StatusNoteOn:
		return NoteOn{Channel: channel, Key: d1, Velocity: d2}, nil
	case StatusKeyAftertouch:
		return KeyAftertouch{Channel: channel, Key: d1, Pressure: d2}, nil
	case StatusControlChange:
		return ControlChange{Channel: channel, Controller: d1, Value: d2}, nil
	case StatusProgramChange:
		return ProgramChange{Channel: channel, Program: d1}, nil
	case StatusChannelAftertouch:
		return ChannelAftertouch{Channel: channel, Pressure: d1}, nil
	case StatusPitchbend:
		return Pitchbend{Channel: channel, Value: int16(join14(d1, d2)) - PitchbendCenter}, nil
	}

	switch status {
	case StatusSongPosition:
		return SongPosition{Position: join14(d1, d2)}, nil
	case StatusTimingClock:
		return TimingClock{}, nil
	case StatusStart:
		return Start{}, nil
	case StatusContinue:
		return Continue{}, nil
	case StatusStop:
		return Stop{}, nil
	case StatusActiveSensing:
		return ActiveSensing{}, nil
	case StatusReset:
		return Reset{}, nil
	}
	return nil, decodeError(data, ErrUnknownStatus)
}

func join14(lsb, msb uint8) uint16 {
	return uint16(lsb) | uint16(msb)<<7
}
