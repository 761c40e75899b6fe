package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/james-see/miditoolbox/pkg/config"
	"github.com/james-see/miditoolbox/pkg/filter"
	"github.com/james-see/miditoolbox/pkg/router"
)

// routeFlags holds the single-route command line options
type routeFlags struct {
	inPort     int
	outPort    int
	inChannel  string
	outChannel string
	monitor    bool
	timing     bool
	noForward  bool
	logPath    string
	filters    []string
}

func (f *routeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.inPort, "inport", "i", 0, "MIDI port to receive events on (0 - n)")
	fs.IntVarP(&f.outPort, "outport", "o", 1, "MIDI port to send events to (0 - n)")
	fs.StringVarP(&f.inChannel, "inchannel", "c", "omni", "MIDI channel to receive events on (1 - 16 or omni)")
	fs.StringVarP(&f.outChannel, "outchannel", "n", "omni", "MIDI channel to send events on (1 - 16 or omni)")
	fs.BoolVarP(&f.monitor, "monitor", "m", false, "Print decoded MIDI events")
	fs.BoolVarP(&f.timing, "timing", "t", false, "Also print system messages and the clock tempo")
	fs.BoolVar(&f.noForward, "no-forward", false, "Monitor only, do not open an output port")
	fs.StringVar(&f.logPath, "log", "", "Append a hex line per message to this file")
	fs.StringArrayVar(&f.filters, "filter", nil, fmt.Sprintf("Forwarding filter preset, repeatable, or none (%v)", filter.Presets()))
}

// config builds the route described by the flags. filterSet tells an
// explicit --filter list from an absent one; "--filter none" disables
// filtering.
func (f *routeFlags) config(filterSet bool) (router.Config, error) {
	in, err := router.ParseChannel(f.inChannel)
	if err != nil {
		return router.Config{}, fmt.Errorf("--inchannel: %w", err)
	}
	out, err := router.ParseChannel(f.outChannel)
	if err != nil {
		return router.Config{}, fmt.Errorf("--outchannel: %w", err)
	}

	cfg := router.Config{
		Input:         f.inPort,
		InputChannel:  in,
		OutputChannel: out,
		Monitor:       f.monitor,
		ShowTiming:    f.timing,
		LogPath:       f.logPath,
	}
	if !f.noForward {
		cfg.Output = router.Port(f.outPort)
	}
	if filterSet {
		cfg.Filters = f.filterNames()
	}
	return cfg, cfg.Validate()
}

func (f *routeFlags) filterNames() []string {
	names := []string{}
	for _, name := range f.filters {
		if name != "" && name != "none" {
			names = append(names, name)
		}
	}
	return names
}

// loadRoutes returns the routes to start and the resolved options of
// the routes file, if one was given. Monitor, timing and filter flags
// given explicitly apply to every route of a CSV file.
func loadRoutes(cmd *cobra.Command) ([]router.Config, *config.File, []error, error) {
	filterSet := cmd.Flags().Changed("filter")
	if configFile == "" {
		cfg, err := flags.config(filterSet)
		if err != nil {
			return nil, nil, nil, err
		}
		return []router.Config{cfg}, nil, nil, nil
	}

	file, warnings, err := config.Load(configFile)
	if err != nil {
		return nil, nil, warnings, err
	}
	cfgs := file.RouteConfigs()
	for i := range cfgs {
		if cmd.Flags().Changed("monitor") {
			cfgs[i].Monitor = flags.monitor
		}
		if cmd.Flags().Changed("timing") {
			cfgs[i].ShowTiming = flags.timing
		}
		if filterSet && cfgs[i].Filters == nil {
			cfgs[i].Filters = flags.filterNames()
		}
	}
	return cfgs, file, warnings, nil
}
