// Package filter provides forwarding predicates applied to decoded events
package filter

import (
	"github.com/james-see/miditoolbox/pkg/message"
)

// Predicate reports whether an event must not be forwarded
type Predicate func(ev message.Event) bool

// Chain is an ordered list of predicates
type Chain []Predicate

// Drop reports whether any predicate in the chain drops the event
func (c Chain) Drop(ev message.Event) bool {
	for _, p := range c {
		if p(ev) {
			return true
		}
	}
	return false
}

// DefaultLowPadMax is the highest key the default chain suppresses.
// Some pad controllers send their lowest pads as notes 0-10.
const DefaultLowPadMax = 10

// Default returns the chain used when a route configures no filters
func Default() Chain {
	return Chain{DropNoteOnAtOrBelow(DefaultLowPadMax)}
}

// DropNoteOnAtOrBelow drops NoteOn events whose key is <= max
func DropNoteOnAtOrBelow(max uint8) Predicate {
	return func(ev message.Event) bool {
		on, ok := ev.(message.NoteOn)
		return ok && on.Key <= max
	}
}

// DropKinds drops every event of the given kinds
func DropKinds(kinds ...message.Kind) Predicate {
	var set [message.KindReset + 1]bool
	for _, k := range kinds {
		if int(k) < len(set) {
			set[k] = true
		}
	}
	return func(ev message.Event) bool {
		return set[ev.Kind()]
	}
}

// DropSystem drops every event that carries no channel
func DropSystem() Predicate {
	return func(ev message.Event) bool {
		return ev.Kind().IsSystem()
	}
}
