package message

// Encode returns the wire bytes of an event. Out-of-range fields are
// masked to their 7-bit or 14-bit width.
func Encode(ev Event) []byte {
	switch e := ev.(type) {
	case NoteOff:
		return voice(StatusNoteOff, e.Channel, e.Key, e.Velocity)
	case NoteOn:
		return voice(StatusNoteOn, e.Channel, e.Key, e.Velocity)
	case KeyAftertouch:
		return voice(StatusKeyAftertouch, e.Channel, e.Key, e.Pressure)
	case ControlChange:
		return voice(StatusControlChange, e.Channel, e.Controller, e.Value)
	case ProgramChange:
		return []byte{StatusProgramChange | e.Channel&0x0F, e.Program & 0x7F}
	case ChannelAftertouch:
		return []byte{StatusChannelAftertouch | e.Channel&0x0F, e.Pressure & 0x7F}
	case Pitchbend:
		lsb, msb := split14(uint16(int32(e.Value) + PitchbendCenter))
		return []byte{StatusPitchbend | e.Channel&0x0F, lsb, msb}
	case SongPosition:
		lsb, msb := split14(e.Position)
		return []byte{StatusSongPosition, lsb, msb}
	case TimingClock:
		return []byte{StatusTimingClock}
	case Start:
		return []byte{StatusStart}
	case Continue:
		return []byte{StatusContinue}
	case Stop:
		return []byte{StatusStop}
	case ActiveSensing:
		return []byte{StatusActiveSensing}
	case Reset:
		return []byte{StatusReset}
	}
	return nil
}

func voice(status, channel, d1, d2 uint8) []byte {
	return []byte{status | channel&0x0F, d1 & 0x7F, d2 & 0x7F}
}

func split14(v uint16) (lsb, msb uint8) {
	return uint8(v & 0x7F), uint8(v>>7) & 0x7F
}
