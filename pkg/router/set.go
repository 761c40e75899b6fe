package router

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/james-see/miditoolbox/pkg/device"
	"github.com/james-see/miditoolbox/pkg/display"
	"github.com/james-see/miditoolbox/pkg/filter"
	"github.com/james-see/miditoolbox/pkg/message"
)

// SetOptions configures how a Set opens its routes
type SetOptions struct {
	Terminal io.Writer // monitor output, defaults to os.Stdout
	Palette  display.Palette
	Logger   *zap.Logger
}

// Set runs a group of routes against one driver. Each input port gets
// a single listener that fans out to every route reading from it, and
// each output port is opened once and shared.
type Set struct {
	drv       device.Driver
	logger    *zap.Logger
	routes    []*Route
	stops     []func()
	outputs   map[int]*sharedOutput
	logs      []*os.File
	setupErrs []error

	closeOnce sync.Once
	closeErr  error
}

type sharedOutput struct {
	mu     sync.Mutex
	sender device.Sender
}

func (o *sharedOutput) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sender.Send(msg)
}

type pending struct {
	route *Route
	log   *os.File
}

// Open builds and starts every route in cfgs. A route that fails to
// start is logged and skipped; the rest keep running. Open only fails
// when no route could be started.
func Open(drv device.Driver, cfgs []Config, opts SetOptions) (*Set, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stdout
	}
	terminal = display.NewSyncWriter(terminal)

	s := &Set{
		drv:     drv,
		logger:  logger,
		outputs: make(map[int]*sharedOutput),
	}

	byInput := make(map[int][]pending)
	for i, cfg := range cfgs {
		p, err := s.build(i, cfg, terminal, opts.Palette)
		if err != nil {
			s.setupFailed(i, err)
			continue
		}
		byInput[cfg.Input] = append(byInput[cfg.Input], p)
	}

	ports := make([]int, 0, len(byInput))
	for port := range byInput {
		ports = append(ports, port)
	}
	sort.Ints(ports)

	for _, port := range ports {
		group := byInput[port]
		routes := make([]*Route, len(group))
		for i, p := range group {
			routes[i] = p.route
		}
		stop, err := drv.Listen(port, s.dispatch(routes))
		if err != nil {
			for _, p := range group {
				if p.log != nil {
					p.log.Close()
				}
				s.setupFailed(p.route.id, err)
			}
			continue
		}
		s.stops = append(s.stops, stop)
		for _, p := range group {
			s.routes = append(s.routes, p.route)
			if p.log != nil {
				s.logs = append(s.logs, p.log)
			}
			logger.Info("route started",
				zap.Int("route", p.route.id),
				zap.String("config", p.route.cfg.String()),
				zap.Bool("monitor", p.route.cfg.Monitor),
				zap.String("log", p.route.cfg.LogPath),
			)
		}
	}

	if len(s.routes) == 0 {
		s.Close()
		return nil, errors.Join(append([]error{ErrNoRoutes}, s.setupErrs...)...)
	}
	sort.Slice(s.routes, func(i, j int) bool { return s.routes[i].id < s.routes[j].id })
	return s, nil
}

func (s *Set) build(id int, cfg Config, terminal io.Writer, palette display.Palette) (pending, error) {
	if err := cfg.Validate(); err != nil {
		return pending{}, err
	}
	chain, err := filter.Parse(cfg.Filters)
	if err != nil {
		return pending{}, err
	}

	opts := Options{Filters: chain}
	if cfg.Monitor {
		opts.Presenter = display.NewPresenter(terminal, palette, cfg.ShowTiming)
	}

	var logFile *os.File
	if cfg.LogPath != "" {
		logFile, err = os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return pending{}, fmt.Errorf("open log: %w", err)
		}
		opts.Log = logFile
	}

	if cfg.Output != nil {
		out, err := s.output(*cfg.Output)
		if err != nil {
			if logFile != nil {
				logFile.Close()
			}
			return pending{}, err
		}
		opts.Output = out
	}

	return pending{route: New(id, cfg, opts), log: logFile}, nil
}

func (s *Set) output(port int) (*sharedOutput, error) {
	if out, ok := s.outputs[port]; ok {
		return out, nil
	}
	sender, err := s.drv.OpenOutput(port)
	if err != nil {
		return nil, err
	}
	out := &sharedOutput{sender: sender}
	s.outputs[port] = out
	return out, nil
}

func (s *Set) setupFailed(id int, err error) {
	serr := &SetupError{Route: id, Err: err}
	s.setupErrs = append(s.setupErrs, serr)
	s.logger.Error("route failed to start", zap.Int("route", id), zap.Error(err))
}

func (s *Set) dispatch(routes []*Route) device.Handler {
	return func(ts uint64, msg []byte) {
		for _, r := range routes {
			err := r.Handle(ts, msg)
			if err == nil {
				continue
			}
			fields := []zap.Field{zap.Int("route", r.id), zap.Int("port", r.cfg.Input), zap.Error(err)}
			// Unsupported system messages such as time code arrive routinely.
			var derr *message.DecodeError
			if errors.As(err, &derr) {
				s.logger.Debug("message skipped", fields...)
				continue
			}
			s.logger.Warn("message error", fields...)
		}
	}
}

// Routes returns the running routes ordered by id
func (s *Set) Routes() []*Route {
	return s.routes
}

// SetupErrors returns the errors of routes that failed to start
func (s *Set) SetupErrors() []error {
	return s.setupErrs
}

// Stats returns a snapshot for every running route
func (s *Set) Stats() []Stats {
	out := make([]Stats, len(s.routes))
	for i, r := range s.routes {
		out[i] = r.Stats()
	}
	return out
}

// Close stops all listeners, then releases outputs and log files.
// The driver itself is left open.
func (s *Set) Close() error {
	s.closeOnce.Do(func() {
		for _, stop := range s.stops {
			stop()
		}
		var errs []error
		ports := make([]int, 0, len(s.outputs))
		for port := range s.outputs {
			ports = append(ports, port)
		}
		sort.Ints(ports)
		for _, port := range ports {
			if err := s.outputs[port].sender.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close output %d: %w", port, err))
			}
		}
		for _, f := range s.logs {
			if err := f.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close log %s: %w", f.Name(), err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
