package router

import (
	"errors"
	"fmt"
)

// ErrNoRoutes is returned when no configured route could be started
var ErrNoRoutes = errors.New("no route could be started")

// ForwardError reports a failed send to the route's output
type ForwardError struct {
	Route int
	Err   error
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("route %d: forward: %v", e.Route, e.Err)
}

func (e *ForwardError) Unwrap() error { return e.Err }

// LogWriteError reports a failed append to the route's log sink
type LogWriteError struct {
	Route int
	Err   error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("route %d: log write: %v", e.Route, e.Err)
}

func (e *LogWriteError) Unwrap() error { return e.Err }

// SetupError reports a route that could not be started
type SetupError struct {
	Route int
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("route %d: setup: %v", e.Route, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
