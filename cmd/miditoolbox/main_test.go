package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/james-see/miditoolbox/pkg/device"
	"github.com/james-see/miditoolbox/pkg/router"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	flags = routeFlags{}
	configFile = ""
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	cmd.Flags().StringVar(&configFile, "config", "", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}
	return cmd
}

func TestSingleRouteFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, cfg router.Config)
		wantErr bool
	}{
		{
			name: "defaults",
			args: nil,
			check: func(t *testing.T, cfg router.Config) {
				if cfg.Input != 0 || cfg.Output == nil || *cfg.Output != 1 {
					t.Errorf("ports = %d -> %v, want 0 -> 1", cfg.Input, cfg.Output)
				}
				if !cfg.InputChannel.IsOmni() || !cfg.OutputChannel.IsOmni() {
					t.Errorf("channels = %s/%s, want omni", cfg.InputChannel, cfg.OutputChannel)
				}
				if cfg.Filters != nil {
					t.Errorf("Filters = %v, want nil", cfg.Filters)
				}
			},
		},
		{
			name: "short flags",
			args: []string{"-i", "2", "-o", "3", "-c", "10", "-n", "1", "-m", "-t"},
			check: func(t *testing.T, cfg router.Config) {
				if cfg.String() != "in 2 ch 10 -> out 3 ch 1" || !cfg.Monitor || !cfg.ShowTiming {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "monitor only",
			args: []string{"--no-forward", "-m", "--log", "out.log"},
			check: func(t *testing.T, cfg router.Config) {
				if cfg.Output != nil || cfg.LogPath != "out.log" {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "filters",
			args: []string{"--filter", "no-clock", "--filter", "low-notes:20"},
			check: func(t *testing.T, cfg router.Config) {
				if strings.Join(cfg.Filters, ",") != "no-clock,low-notes:20" {
					t.Errorf("Filters = %v", cfg.Filters)
				}
			},
		},
		{
			name: "no filters",
			args: []string{"--filter", "none"},
			check: func(t *testing.T, cfg router.Config) {
				if cfg.Filters == nil || len(cfg.Filters) != 0 {
					t.Errorf("Filters = %#v, want empty", cfg.Filters)
				}
			},
		},
		{name: "bad channel", args: []string{"-c", "17"}, wantErr: true},
		{name: "bad port", args: []string{"-i", "-2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCmd(t, tt.args...)
			cfgs, file, _, err := loadRoutes(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadRoutes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if file != nil || len(cfgs) != 1 {
				t.Fatalf("loadRoutes() = %d routes, file %v", len(cfgs), file)
			}
			tt.check(t, cfgs[0])
		})
	}
}

func TestRoutesFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.csv")
	if err := os.WriteFile(path, []byte("0,omni,1,2\n1,10,,omni\nbogus\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd(t, "--config", path, "-m", "--filter", "no-clock", "-i", "7")
	cfgs, file, warnings, err := loadRoutes(cmd)
	if err != nil {
		t.Fatalf("loadRoutes() error = %v", err)
	}
	if file == nil || len(cfgs) != 2 || len(warnings) != 1 {
		t.Fatalf("loadRoutes() = %d routes, %d warnings", len(cfgs), len(warnings))
	}
	for _, cfg := range cfgs {
		if !cfg.Monitor || len(cfg.Filters) != 1 || cfg.Filters[0] != "no-clock" {
			t.Errorf("route %s did not take flag overrides: %+v", cfg, cfg)
		}
	}
	if cfgs[1].Input != 1 {
		t.Errorf("routes file input overridden by -i: %d", cfgs[1].Input)
	}
}

type listOnly struct {
	ins, outs []device.PortInfo
}

func (l listOnly) Inputs() ([]device.PortInfo, error)  { return l.ins, nil }
func (l listOnly) Outputs() ([]device.PortInfo, error) { return l.outs, nil }

func TestPrintPorts(t *testing.T) {
	var buf bytes.Buffer
	err := printPorts(&buf, listOnly{
		ins: []device.PortInfo{{Number: 0, Name: "Midi Through Port-0"}, {Number: 1, Name: "Keystep"}},
	})
	if err != nil {
		t.Fatalf("printPorts() error = %v", err)
	}
	want := `Available input ports:
  0: Midi Through Port-0
  1: Keystep

Available output ports:
  (none)
`
	if buf.String() != want {
		t.Errorf("printPorts() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWaitForEnter(t *testing.T) {
	called := false
	waitForEnter(strings.NewReader("\n"), func() { called = true })
	if !called {
		t.Error("enter did not stop")
	}

	called = false
	waitForEnter(strings.NewReader(""), func() { called = true })
	if called {
		t.Error("closed stdin stopped the command")
	}
}
