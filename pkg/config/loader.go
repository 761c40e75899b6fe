package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a routes file. Files ending in .csv are parsed as CSV and
// everything else as YAML. Malformed routes are skipped and returned
// as warnings; Load fails only when the file cannot be read or parsed
// or no valid route is left.
func Load(path string) (*File, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read config file: %w", err)
	}

	var (
		f        *File
		warnings []error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		routes, errs := ParseCSV(bytes.NewReader(data))
		f = &File{}
		for _, r := range routes {
			f.Routes = append(f.Routes, specFor(r))
		}
		warnings = errs
	default:
		f, warnings, err = ParseYAML(data)
		if err != nil {
			return nil, nil, err
		}
	}

	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, warnings, fmt.Errorf("validate config: %w", err)
	}
	return f, warnings, nil
}

// document is the raw YAML layout. Routes stay as nodes so one bad
// entry does not fail the whole file.
type document struct {
	LogLevel string      `yaml:"log_level"`
	Color    *bool       `yaml:"color"`
	Routes   []yaml.Node `yaml:"routes"`
}

var routeKeys = map[string]bool{
	"input":          true,
	"input_channel":  true,
	"output":         true,
	"output_channel": true,
	"monitor":        true,
	"timing":         true,
	"log":            true,
	"filters":        true,
}

// ParseYAML decodes a YAML routes file after expanding ${VAR}
// references. Routes that cannot be decoded or are invalid are skipped
// and returned as warnings.
func ParseYAML(data []byte) (*File, []error, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("parse config yaml: %w", err)
	}

	f := &File{LogLevel: doc.LogLevel, Color: doc.Color}
	var warnings []error
	for i := range doc.Routes {
		spec, err := decodeRoute(&doc.Routes[i])
		if err != nil {
			warnings = append(warnings, fmt.Errorf("route %d: %w", i, err))
			continue
		}
		f.Routes = append(f.Routes, spec)
	}
	return f, warnings, nil
}

func decodeRoute(node *yaml.Node) (RouteSpec, error) {
	var spec RouteSpec
	if node.Kind != yaml.MappingNode {
		return spec, fmt.Errorf("line %d: route must be a mapping", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i]
		if !routeKeys[key.Value] {
			return spec, fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	if err := node.Decode(&spec); err != nil {
		return spec, err
	}
	if err := spec.Config().Validate(); err != nil {
		return spec, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return spec, nil
}
