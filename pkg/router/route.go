package router

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/james-see/miditoolbox/pkg/display"
	"github.com/james-see/miditoolbox/pkg/filter"
	"github.com/james-see/miditoolbox/pkg/message"
)

// Output receives forwarded messages
type Output interface {
	Send(msg []byte) error
}

// Options binds the optional collaborators of a route. A nil Output
// disables forwarding, a nil Presenter disables monitoring and a nil
// Log disables logging.
type Options struct {
	Output    Output
	Presenter *display.Presenter
	Log       io.Writer
	Filters   filter.Chain
}

// Route owns all mutable state of one input/output pairing. Handle
// must not be called concurrently on the same Route; Stats may be.
type Route struct {
	id        int
	cfg       Config
	out       Output
	presenter *display.Presenter
	log       io.Writer
	filters   filter.Chain

	buf [message.MaxLen]byte // last sent message

	received       atomic.Uint64
	channelDropped atomic.Uint64
	decodeErrors   atomic.Uint64
	forwarded      atomic.Uint64
	suppressed     atomic.Uint64
	forwardErrors  atomic.Uint64
	displayed      atomic.Uint64
	logged         atomic.Uint64
	logErrors      atomic.Uint64
}

// New creates a route
func New(id int, cfg Config, opts Options) *Route {
	return &Route{
		id:        id,
		cfg:       cfg,
		out:       opts.Output,
		presenter: opts.Presenter,
		log:       opts.Log,
		filters:   opts.Filters,
	}
}

// ID returns the route number
func (r *Route) ID() int {
	return r.id
}

// Config returns the route configuration
func (r *Route) Config() Config {
	return r.cfg
}

// Handle processes one incoming message: channel filter, decode,
// forward, display and log. Messages on other channels are dropped
// without side effects. The returned error never stops the route.
func (r *Route) Handle(ts uint64, msg []byte) error {
	r.received.Add(1)

	if len(msg) > 0 && !r.cfg.InputChannel.Accepts(msg[0]) {
		r.channelDropped.Add(1)
		return nil
	}

	ev, err := message.Decode(msg)
	if err != nil {
		r.decodeErrors.Add(1)
		return fmt.Errorf("route %d: %w", r.id, err)
	}

	var errs []error

	if r.out != nil {
		if r.filters.Drop(ev) {
			r.suppressed.Add(1)
		} else if err := r.forward(msg); err != nil {
			r.forwardErrors.Add(1)
			errs = append(errs, &ForwardError{Route: r.id, Err: err})
		} else {
			r.forwarded.Add(1)
		}
	}

	if r.presenter != nil {
		shown, err := r.presenter.Show(ts, r.cfg.Input, ev)
		if err != nil {
			errs = append(errs, fmt.Errorf("route %d: %w", r.id, err))
		} else if shown {
			r.displayed.Add(1)
		}
	}

	if r.log != nil {
		if _, err := io.WriteString(r.log, HexLine(msg)+"\n"); err != nil {
			r.logErrors.Add(1)
			errs = append(errs, &LogWriteError{Route: r.id, Err: err})
		} else {
			r.logged.Add(1)
		}
	}

	return errors.Join(errs...)
}

func (r *Route) forward(msg []byte) error {
	n := copy(r.buf[:], msg)
	r.buf[0] = RemapStatus(msg[0], r.cfg.OutputChannel)
	return r.out.Send(r.buf[:n])
}

// RemapStatus rewrites the channel nibble of a channel voice status
// byte to out. System status bytes and Omni leave it unchanged.
func RemapStatus(status byte, out Channel) byte {
	if out.IsOmni() || status >= message.StatusSystem {
		return status
	}
	if status&0x0F == out.Index() {
		return status
	}
	return status&0xF0 | out.Index()
}

// HexLine formats a message as space-separated lowercase hex pairs.
// Messages shorter than two bytes yield an empty line.
func HexLine(msg []byte) string {
	if len(msg) < 2 {
		return ""
	}
	var b strings.Builder
	for i, c := range msg {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}
