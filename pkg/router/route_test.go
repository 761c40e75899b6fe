package router

import (
	"bytes"
	"errors"
	"testing"

	"github.com/james-see/miditoolbox/pkg/display"
	"github.com/james-see/miditoolbox/pkg/filter"
	"github.com/james-see/miditoolbox/pkg/message"
)

type recordOutput struct {
	sent [][]byte
	err  error
}

func (o *recordOutput) Send(msg []byte) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, append([]byte(nil), msg...))
	return nil
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestChannelAccepts(t *testing.T) {
	tests := []struct {
		channel Channel
		status  byte
		want    bool
	}{
		{Omni, 0x90, true},
		{Omni, 0x9F, true},
		{Omni, 0xF8, true},
		{1, 0x90, true},
		{1, 0x91, false},
		{16, 0x8F, true},
		{16, 0x80, false},
		{9, 0xF8, true}, // low nibble 8 matches channel 9
		{1, 0xF8, false},
	}
	for _, tt := range tests {
		if got := tt.channel.Accepts(tt.status); got != tt.want {
			t.Errorf("Channel(%s).Accepts(%#x) = %v, want %v", tt.channel, tt.status, got, tt.want)
		}
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    Channel
		wantErr bool
	}{
		{"", Omni, false},
		{"omni", Omni, false},
		{" OMNI ", Omni, false},
		{"0", Omni, false},
		{"1", 1, false},
		{"16", 16, false},
		{"17", Omni, true},
		{"-1", Omni, true},
		{"ten", Omni, true},
	}
	for _, tt := range tests {
		got, err := ParseChannel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChannel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("ParseChannel(%q) error = %v, want ErrInvalidChannel", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseChannel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRemapStatus(t *testing.T) {
	tests := []struct {
		name   string
		status byte
		out    Channel
		want   byte
	}{
		{"omni leaves channel", 0x93, Omni, 0x93},
		{"note on to ch 2", 0x90, 2, 0x91},
		{"already on target", 0xB4, 5, 0xB4},
		{"pitchbend to ch 16", 0xE0, 16, 0xEF},
		{"clock untouched", 0xF8, 2, 0xF8},
		{"song position untouched", 0xF2, 1, 0xF2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemapStatus(tt.status, tt.out); got != tt.want {
				t.Errorf("RemapStatus(%#x, %s) = %#x, want %#x", tt.status, tt.out, got, tt.want)
			}
		})
	}
}

func TestHexLine(t *testing.T) {
	tests := []struct {
		msg  []byte
		want string
	}{
		{[]byte{0x90, 0x40, 0x7f}, "90 40 7f"},
		{[]byte{0xc0, 0x05}, "c0 05"},
		{[]byte{0xf8}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := HexLine(tt.msg); got != tt.want {
			t.Errorf("HexLine(% x) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestForwardRemapsOmniInput(t *testing.T) {
	out := &recordOutput{}
	cfg := Config{Input: 0, Output: Port(1), OutputChannel: 2}
	r := New(0, cfg, Options{Output: out})

	if err := r.Handle(0, []byte{0x90, 0x40, 0x7F}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(out.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(out.sent))
	}
	if !bytes.Equal(out.sent[0], []byte{0x91, 0x40, 0x7F}) {
		t.Errorf("sent % x, want 91 40 7f", out.sent[0])
	}
}

func TestOmniInputPassesAllChannels(t *testing.T) {
	out := &recordOutput{}
	r := New(0, Config{Output: Port(0)}, Options{Output: out})

	for ch := byte(0); ch < 16; ch++ {
		if err := r.Handle(0, []byte{0xB0 | ch, 7, 100}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}
	if len(out.sent) != 16 {
		t.Errorf("forwarded %d messages, want 16", len(out.sent))
	}
}

func TestChannelFilterDropsWithoutSideEffects(t *testing.T) {
	out := &recordOutput{}
	var screen, log bytes.Buffer
	cfg := Config{InputChannel: 3, Output: Port(0), Monitor: true}
	r := New(0, cfg, Options{
		Output:    out,
		Presenter: display.NewPresenter(&screen, display.Plain(), false),
		Log:       &log,
	})

	for ch := byte(0); ch < 16; ch++ {
		if err := r.Handle(uint64(ch), []byte{0x90 | ch, 60, 100}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}

	if len(out.sent) != 1 || out.sent[0][0] != 0x92 {
		t.Errorf("sent %v, want one message on channel 3", out.sent)
	}
	if got, want := screen.String(), "2 Port 0 Ch 3 NoteOn key=60 velocity=100\n"; got != want {
		t.Errorf("monitor = %q, want %q", got, want)
	}
	if got, want := log.String(), "92 3c 64\n"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
	if s := r.Stats(); s.ChannelDropped != 15 || s.Received != 16 {
		t.Errorf("stats = %+v, want 15 dropped of 16", s)
	}
}

func TestLowPadsSuppressedButShownAndLogged(t *testing.T) {
	out := &recordOutput{}
	var screen, log bytes.Buffer
	r := New(0, Config{Output: Port(0), Monitor: true}, Options{
		Output:    out,
		Presenter: display.NewPresenter(&screen, display.Plain(), false),
		Log:       &log,
		Filters:   filter.Default(),
	})

	msgs := [][]byte{
		{0x90, 10, 100}, // pad, suppressed
		{0x90, 11, 100},
		{0x80, 5, 0}, // note off is never suppressed
	}
	for _, m := range msgs {
		if err := r.Handle(1, m); err != nil {
			t.Fatalf("Handle(% x) error = %v", m, err)
		}
	}

	if len(out.sent) != 2 {
		t.Fatalf("forwarded %d messages, want 2", len(out.sent))
	}
	if out.sent[0][1] != 11 || out.sent[1][0] != 0x80 {
		t.Errorf("forwarded % x", out.sent)
	}
	if n := bytes.Count(screen.Bytes(), []byte("\n")); n != 3 {
		t.Errorf("monitor printed %d lines, want 3", n)
	}
	if got, want := log.String(), "90 0a 64\n90 0b 64\n80 05 00\n"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
	if s := r.Stats(); s.Suppressed != 1 || s.Forwarded != 2 {
		t.Errorf("stats = %+v", s)
	}
}

func TestClockAloneDisplaysNothing(t *testing.T) {
	var screen, log bytes.Buffer
	r := New(0, Config{Monitor: true}, Options{
		Presenter: display.NewPresenter(&screen, display.Plain(), false),
		Log:       &log,
	})

	if err := r.Handle(5, []byte{message.StatusTimingClock}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if screen.Len() != 0 {
		t.Errorf("monitor = %q, want nothing", screen.String())
	}
	if log.String() != "\n" {
		t.Errorf("log = %q, want an empty line", log.String())
	}
}

func TestForwardErrorDoesNotStopRoute(t *testing.T) {
	out := &recordOutput{err: errors.New("device unplugged")}
	var screen bytes.Buffer
	r := New(4, Config{Output: Port(0), Monitor: true}, Options{
		Output:    out,
		Presenter: display.NewPresenter(&screen, display.Plain(), false),
	})

	err := r.Handle(0, []byte{0x90, 60, 1})
	var ferr *ForwardError
	if !errors.As(err, &ferr) {
		t.Fatalf("Handle() error = %v, want ForwardError", err)
	}
	if ferr.Route != 4 {
		t.Errorf("ForwardError.Route = %d, want 4", ferr.Route)
	}
	if screen.Len() == 0 {
		t.Error("message was not displayed after forward failure")
	}

	out.err = nil
	if err := r.Handle(1, []byte{0x90, 61, 1}); err != nil {
		t.Fatalf("second Handle() error = %v", err)
	}
	if len(out.sent) != 1 {
		t.Errorf("sent %d messages after recovery, want 1", len(out.sent))
	}
	if s := r.Stats(); s.ForwardErrors != 1 || s.Forwarded != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestLogWriteError(t *testing.T) {
	r := New(1, Config{}, Options{Log: failWriter{}})

	err := r.Handle(0, []byte{0x90, 60, 1})
	var lerr *LogWriteError
	if !errors.As(err, &lerr) {
		t.Fatalf("Handle() error = %v, want LogWriteError", err)
	}
	if r.Stats().LogErrors != 1 {
		t.Errorf("LogErrors = %d, want 1", r.Stats().LogErrors)
	}
}

func TestDecodeErrorSkipsMessage(t *testing.T) {
	out := &recordOutput{}
	r := New(0, Config{Output: Port(0)}, Options{Output: out})

	tests := [][]byte{
		{},
		{0x40, 0x40},
		{0x90, 0x40, 0x7F, 0x00},
	}
	for _, m := range tests {
		err := r.Handle(0, m)
		var derr *message.DecodeError
		if !errors.As(err, &derr) {
			t.Errorf("Handle(% x) error = %v, want DecodeError", m, err)
		}
	}
	if len(out.sent) != 0 {
		t.Errorf("forwarded %d undecodable messages", len(out.sent))
	}
	if s := r.Stats(); s.DecodeErrors != uint64(len(tests)) {
		t.Errorf("DecodeErrors = %d, want %d", s.DecodeErrors, len(tests))
	}
}

func TestSystemMessagesForwardedUnchanged(t *testing.T) {
	out := &recordOutput{}
	r := New(0, Config{Output: Port(0), OutputChannel: 5}, Options{Output: out})

	for _, m := range [][]byte{{0xF8}, {0xFA}, {0xF2, 0x10, 0x01}} {
		if err := r.Handle(0, m); err != nil {
			t.Fatalf("Handle(% x) error = %v", m, err)
		}
	}
	want := [][]byte{{0xF8}, {0xFA}, {0xF2, 0x10, 0x01}}
	if len(out.sent) != len(want) {
		t.Fatalf("sent %d, want %d", len(out.sent), len(want))
	}
	for i := range want {
		if !bytes.Equal(out.sent[i], want[i]) {
			t.Errorf("sent[%d] = % x, want % x", i, out.sent[i], want[i])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{}, false},
		{"forwarding", Config{Input: 1, Output: Port(2), OutputChannel: 16}, false},
		{"negative input", Config{Input: -1}, true},
		{"negative output", Config{Output: Port(-3)}, true},
		{"bad input channel", Config{InputChannel: 17}, true},
		{"bad output channel", Config{Output: Port(0), OutputChannel: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := Config{Input: 0, InputChannel: 10, Output: Port(1), OutputChannel: Omni}
	if got, want := cfg.String(), "in 0 ch 10 -> out 1 ch omni"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := (Config{Input: 2}).String(), "in 2 ch omni"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
