// Package config loads route definitions from YAML or CSV files
package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/james-see/miditoolbox/pkg/logging"
	"github.com/james-see/miditoolbox/pkg/router"
)

// ErrNoRoutes is returned for a file that defines no routes
var ErrNoRoutes = errors.New("no routes defined")

// File is the YAML routes file
type File struct {
	LogLevel string      `yaml:"log_level"`
	Color    *bool       `yaml:"color"` // default true
	Routes   []RouteSpec `yaml:"routes"`
}

// RouteSpec is one route as written in YAML. A missing output disables
// forwarding; a missing filters key selects the default chain while an
// empty list disables filtering.
type RouteSpec struct {
	Input         int          `yaml:"input"`
	InputChannel  ChannelValue `yaml:"input_channel"`
	Output        *int         `yaml:"output"`
	OutputChannel ChannelValue `yaml:"output_channel"`
	Monitor       bool         `yaml:"monitor"`
	Timing        bool         `yaml:"timing"`
	Log           string       `yaml:"log"`
	Filters       []string     `yaml:"filters"`
}

// ChannelValue accepts "omni" or a number in YAML
type ChannelValue router.Channel

// UnmarshalYAML implements yaml.Unmarshaler
func (c *ChannelValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: channel must be a scalar", node.Line)
	}
	ch, err := router.ParseChannel(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = ChannelValue(ch)
	return nil
}

// Config converts the spec into a router configuration
func (s RouteSpec) Config() router.Config {
	return router.Config{
		Input:         s.Input,
		InputChannel:  router.Channel(s.InputChannel),
		Output:        s.Output,
		OutputChannel: router.Channel(s.OutputChannel),
		Monitor:       s.Monitor,
		ShowTiming:    s.Timing,
		LogPath:       s.Log,
		Filters:       s.Filters,
	}
}

// ColorEnabled reports whether colored output is requested
func (f *File) ColorEnabled() bool {
	return f.Color == nil || *f.Color
}

// RouteConfigs returns the router configuration of every route
func (f *File) RouteConfigs() []router.Config {
	out := make([]router.Config, len(f.Routes))
	for i, r := range f.Routes {
		out[i] = r.Config()
	}
	return out
}

func (f *File) applyDefaults() {
	if f.LogLevel == "" {
		f.LogLevel = logging.DefaultLevel
	}
}

// Validate checks that the file defines at least one route and that
// every route is valid.
func (f *File) Validate() error {
	if len(f.Routes) == 0 {
		return ErrNoRoutes
	}
	var errs []error
	for i, r := range f.Routes {
		if err := r.Config().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("route %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
