package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/james-see/miditoolbox/pkg/api"
	"github.com/james-see/miditoolbox/pkg/config"
	"github.com/james-see/miditoolbox/pkg/device"
	"github.com/james-see/miditoolbox/pkg/display"
	"github.com/james-see/miditoolbox/pkg/logging"
	"github.com/james-see/miditoolbox/pkg/router"
	"github.com/james-see/miditoolbox/pkg/tui"
)

const tuiBufferLines = 1024

func newLogger(cmd *cobra.Command, file *config.File, fallback string) (*zap.Logger, error) {
	level := logLevel
	if !cmd.Flags().Changed("log-level") {
		switch {
		case file != nil:
			level = file.LogLevel
		case fallback != "":
			level = fallback
		}
	}
	return logging.New(level, logFormat != "json")
}

func palette(file *config.File) display.Palette {
	return display.ForColor(!noColor && (file == nil || file.ColorEnabled()))
}

func runList(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd, nil, "")
	if err != nil {
		return err
	}
	defer logger.Sync()

	drv := device.NewRtMidi(logger)
	defer drv.Close()
	return printPorts(cmd.OutOrStdout(), drv)
}

func printPorts(w io.Writer, lister api.PortLister) error {
	ins, err := lister.Inputs()
	if err != nil {
		return err
	}
	outs, err := lister.Outputs()
	if err != nil {
		return err
	}
	printGroup(w, "Available input ports:", ins)
	fmt.Fprintln(w)
	printGroup(w, "Available output ports:", outs)
	return nil
}

func printGroup(w io.Writer, title string, ports []device.PortInfo) {
	fmt.Fprintln(w, title)
	if len(ports) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, p := range ports {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

// session holds everything a running command owns
type session struct {
	logger *zap.Logger
	drv    device.Driver
	set    *router.Set
}

func (s *session) close() {
	if err := s.set.Close(); err != nil {
		s.logger.Warn("closing routes", zap.Error(err))
	}
	if err := s.drv.Close(); err != nil {
		s.logger.Warn("closing driver", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func start(cmd *cobra.Command, terminal io.Writer, forceMonitor bool, fallbackLevel string) (*session, error) {
	cfgs, file, warnings, loadErr := loadRoutes(cmd)

	logger, err := newLogger(cmd, file, fallbackLevel)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn("skipped routes file row", zap.String("file", configFile), zap.Error(w))
	}
	if loadErr != nil {
		return nil, loadErr
	}
	if forceMonitor {
		for i := range cfgs {
			cfgs[i].Monitor = true
		}
	}

	drv := device.NewRtMidi(logger)
	set, err := router.Open(drv, cfgs, router.SetOptions{
		Terminal: terminal,
		Palette:  palette(file),
		Logger:   logger,
	})
	if err != nil {
		drv.Close()
		return nil, err
	}
	return &session{logger: logger, drv: drv, set: set}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := start(cmd, cmd.OutOrStdout(), false, "")
	if err != nil {
		return err
	}
	defer s.close()

	for _, r := range s.set.Routes() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Route %d: %s\n", r.ID(), r.Config())
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Press enter or Ctrl+C to exit.")
	go waitForEnter(cmd.InOrStdin(), stop)

	return serveUntilDone(ctx, s)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := tui.NewLineBuffer(tuiBufferLines)
	defer lines.Close()

	// Diagnostics share the terminal with the monitor screen.
	s, err := start(cmd, lines, true, "error")
	if err != nil {
		return err
	}
	defer s.close()

	if httpAddr != "" {
		go func() {
			if err := api.Serve(ctx, httpAddr, api.NewHandler(s.set, s.drv, s.logger), s.logger); err != nil {
				s.logger.Error("status api stopped", zap.Error(err))
			}
		}()
	}

	err = tui.Run(ctx, lines, s.set)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func serveUntilDone(ctx context.Context, s *session) error {
	if httpAddr == "" {
		<-ctx.Done()
		return nil
	}
	return api.Serve(ctx, httpAddr, api.NewHandler(s.set, s.drv, s.logger), s.logger)
}

func waitForEnter(r io.Reader, done func()) {
	if _, err := bufio.NewReader(r).ReadString('\n'); err == nil {
		done()
	}
}
