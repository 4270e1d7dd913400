package service

import "sync/atomic"

// Sequencer numbers analysis requests so only the newest one commits.
// The zero value is ready to use.
type Sequencer struct {
	latest atomic.Uint64
}

// Begin issues the next sequence number. Numbers start at 1.
func (s *Sequencer) Begin() uint64 {
	return s.latest.Add(1)
}

// Latest returns the most recently issued number, 0 if none
func (s *Sequencer) Latest() uint64 {
	return s.latest.Load()
}

// IsLatest reports whether seq is still the newest request
func (s *Sequencer) IsLatest(seq uint64) bool {
	return seq != 0 && seq == s.latest.Load()
}
