package router

// Stats is a point-in-time snapshot of a route's counters
type Stats struct {
	ID             int     `json:"id"`
	Route          string  `json:"route"`
	Input          int     `json:"input"`
	InputChannel   string  `json:"input_channel"`
	Output         *int    `json:"output,omitempty"`
	OutputChannel  string  `json:"output_channel"`
	Received       uint64  `json:"received"`
	ChannelDropped uint64  `json:"channel_dropped"`
	DecodeErrors   uint64  `json:"decode_errors"`
	Forwarded      uint64  `json:"forwarded"`
	Suppressed     uint64  `json:"suppressed"`
	ForwardErrors  uint64  `json:"forward_errors"`
	Displayed      uint64  `json:"displayed"`
	Logged         uint64  `json:"logged"`
	LogErrors      uint64  `json:"log_errors"`
	Tempo          float64 `json:"tempo,omitempty"`
}

// Stats returns current statistics
func (r *Route) Stats() Stats {
	s := Stats{
		ID:             r.id,
		Route:          r.cfg.String(),
		Input:          r.cfg.Input,
		InputChannel:   r.cfg.InputChannel.String(),
		Output:         r.cfg.Output,
		OutputChannel:  r.cfg.OutputChannel.String(),
		Received:       r.received.Load(),
		ChannelDropped: r.channelDropped.Load(),
		DecodeErrors:   r.decodeErrors.Load(),
		Forwarded:      r.forwarded.Load(),
		Suppressed:     r.suppressed.Load(),
		ForwardErrors:  r.forwardErrors.Load(),
		Displayed:      r.displayed.Load(),
		Logged:         r.logged.Load(),
		LogErrors:      r.logErrors.Load(),
	}
	if r.presenter != nil {
		if bpm, ok := r.presenter.Tempo(); ok {
			s.Tempo = bpm
		}
	}
	return s
}
