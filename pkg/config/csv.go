package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/james-see/miditoolbox/pkg/router"
)

// ParseCSV reads rows of input,inchannel,output,outchannel. Blank
// lines and lines starting with # are ignored, a blank output column
// disables forwarding. Rows that cannot be parsed are skipped and
// reported in the returned errors.
func ParseCSV(r io.Reader) ([]router.Config, []error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		routes []router.Config
		errs   []error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		line, _ := cr.FieldPos(0)
		cfg, err := parseRow(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		routes = append(routes, cfg)
	}
	return routes, errs
}

func parseRow(rec []string) (router.Config, error) {
	if len(rec) != 4 {
		return router.Config{}, fmt.Errorf("want 4 fields, got %d", len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}

	var cfg router.Config
	in, err := strconv.Atoi(rec[0])
	if err != nil {
		return cfg, fmt.Errorf("input port %q: %w", rec[0], err)
	}
	cfg.Input = in

	if cfg.InputChannel, err = router.ParseChannel(rec[1]); err != nil {
		return cfg, err
	}

	if rec[2] != "" {
		out, err := strconv.Atoi(rec[2])
		if err != nil {
			return cfg, fmt.Errorf("output port %q: %w", rec[2], err)
		}
		cfg.Output = &out
	}

	if cfg.OutputChannel, err = router.ParseChannel(rec[3]); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func specFor(cfg router.Config) RouteSpec {
	return RouteSpec{
		Input:         cfg.Input,
		InputChannel:  ChannelValue(cfg.InputChannel),
		Output:        cfg.Output,
		OutputChannel: ChannelValue(cfg.OutputChannel),
	}
}
