package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/james-see/miditoolbox/pkg/message"
)

// ErrUnknownPreset is returned for a filter name with no preset
var ErrUnknownPreset = errors.New("unknown filter preset")

// DefaultPreset names the chain used when a route lists no filters
const DefaultPreset = "low-pads"

var presets = map[string]func() Predicate{
	DefaultPreset: func() Predicate { return DropNoteOnAtOrBelow(DefaultLowPadMax) },
	"no-clock":    func() Predicate { return DropKinds(message.KindTimingClock) },
	"no-active-sensing": func() Predicate {
		return DropKinds(message.KindActiveSensing)
	},
	"no-realtime": DropSystem,
	"no-aftertouch": func() Predicate {
		return DropKinds(message.KindKeyAftertouch, message.KindChannelAftertouch)
	},
}

// Presets returns the names accepted by Parse, sorted
func Presets() []string {
	names := make([]string, 0, len(presets)+1)
	for name := range presets {
		names = append(names, name)
	}
	names = append(names, "low-notes:N")
	sort.Strings(names)
	return names
}

// Lookup resolves one preset name. "low-notes:N" drops NoteOn keys <= N.
func Lookup(name string) (Predicate, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if arg, ok := strings.CutPrefix(name, "low-notes:"); ok {
		n, err := strconv.ParseUint(arg, 10, 8)
		if err != nil || n > 127 {
			return nil, fmt.Errorf("%w: %q: key must be 0-127", ErrUnknownPreset, name)
		}
		return DropNoteOnAtOrBelow(uint8(n)), nil
	}
	if mk, ok := presets[name]; ok {
		return mk(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Parse builds a chain from preset names in order. A nil list yields
// the default chain; an empty, non-nil list yields no filtering.
func Parse(names []string) (Chain, error) {
	if names == nil {
		return Default(), nil
	}
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	return chain, nil
}
