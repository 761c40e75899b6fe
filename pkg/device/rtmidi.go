package device

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"go.uber.org/zap"
)

// enumTimeout bounds port enumeration; CoreMIDI can hang
const enumTimeout = 3 * time.Second

// RtMidi is the Driver backed by the registered rtmidi driver
type RtMidi struct {
	logger *zap.Logger
	start  time.Time
}

// NewRtMidi creates a driver whose timestamps count from now
func NewRtMidi(logger *zap.Logger) *RtMidi {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RtMidi{logger: logger, start: time.Now()}
}

type ports struct {
	ins  []drivers.In
	outs []drivers.Out
}

func (d *RtMidi) ports() (ports, error) {
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(enumTimeout):
		return ports{}, ErrEnumTimeout
	}
}

// Inputs lists the input ports
func (d *RtMidi) Inputs() ([]PortInfo, error) {
	p, err := d.ports()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, len(p.ins))
	for i, in := range p.ins {
		infos[i] = PortInfo{Number: i, Name: in.String()}
	}
	return infos, nil
}

// Outputs lists the output ports
func (d *RtMidi) Outputs() ([]PortInfo, error) {
	p, err := d.ports()
	if err != nil {
		return nil, err
	}
	infos := make([]PortInfo, len(p.outs))
	for i, out := range p.outs {
		infos[i] = PortInfo{Number: i, Name: out.String()}
	}
	return infos, nil
}

// Listen delivers every message arriving on the input port to fn,
// including timing clock and active sensing.
func (d *RtMidi) Listen(port int, fn Handler) (func(), error) {
	p, err := d.ports()
	if err != nil {
		return nil, err
	}
	if err := checkRange(port, len(p.ins), "input"); err != nil {
		return nil, err
	}
	in := p.ins[port]

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		fn(d.stamp(), msg)
	},
		gomidi.UseTimeCode(),
		gomidi.UseActiveSense(),
		gomidi.HandleError(func(err error) {
			d.logger.Warn("MIDI input error",
				zap.Int("port", port),
				zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: input %d (%s): %v", ErrListen, port, in.String(), err)
	}

	d.logger.Info("listening on MIDI input",
		zap.Int("port", port),
		zap.String("name", in.String()))
	return stop, nil
}

// OpenOutput opens an output port for sending
func (d *RtMidi) OpenOutput(port int) (Sender, error) {
	p, err := d.ports()
	if err != nil {
		return nil, err
	}
	if err := checkRange(port, len(p.outs), "output"); err != nil {
		return nil, err
	}
	out := p.outs[port]

	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("%w: output %d (%s): %v", ErrOpenPort, port, out.String(), err)
	}

	d.logger.Info("opened MIDI output",
		zap.Int("port", port),
		zap.String("name", out.String()))
	return &rtSender{out: out, send: send}, nil
}

// Close shuts down the underlying driver
func (d *RtMidi) Close() error {
	gomidi.CloseDriver()
	return nil
}

// stamp returns microseconds since the driver was created. time.Since
// reads the monotonic clock.
func (d *RtMidi) stamp() uint64 {
	return uint64(time.Since(d.start).Microseconds())
}

type rtSender struct {
	out  drivers.Out
	send func(msg gomidi.Message) error
}

func (s *rtSender) Send(msg []byte) error {
	return s.send(gomidi.Message(msg))
}

func (s *rtSender) Close() error {
	return s.out.Close()
}
