// Package repricer drives the autonomous catalog cycle: mood derivation,
// repricing, discovery, retirement, all on a fixed tick.
package repricer

import (
	"sync"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

// State is the process-local autonomy state shared by the cycle, the
// payment callback and the support chat.
type State struct {
	mu sync.Mutex

	syncing         bool
	lastSync        time.Time
	mood            enums.Mood
	dissatisfaction float64
	conversions     int64
	// conversionsAtSync remembers the counter the last time a cycle ran,
	// so fresh conversions can bypass the cooldown.
	conversionsAtSync int64
	lastMultiplier    float64
	cycles            int64
}

// NewState starts in the Optimal mood with a clean ledger.
func NewState() *State {
	return &State{mood: enums.MoodOptimal}
}

// BeginSync attempts to enter the SYNCING state. False means a cycle is
// already in flight; the caller must not proceed.
func (s *State) BeginSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing {
		return false
	}
	s.syncing = true
	return true
}

// EndSync leaves the SYNCING state. Always called in a defer so a panicking
// cycle cannot wedge the flag.
func (s *State) EndSync() {
	s.mu.Lock()
	s.syncing = false
	s.mu.Unlock()
}

// ShouldSkip reports whether a non-forced cycle should yield: inside the
// cooldown window with no conversions since the last run.
func (s *State) ShouldSkip(now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSync.IsZero() {
		return false
	}
	if now.Sub(s.lastSync) >= cooldown {
		return false
	}
	return s.conversions == s.conversionsAtSync
}

// MarkSynced records a completed cycle.
func (s *State) MarkSynced(now time.Time, mood enums.Mood, multiplier float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = now
	s.mood = mood
	s.lastMultiplier = multiplier
	s.conversionsAtSync = s.conversions
	s.cycles++
}

// Mood returns the mood set by the most recent cycle.
func (s *State) Mood() enums.Mood {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mood
}

// RecordConversion counts a settled payment. Conversions bypass the cycle
// cooldown.
func (s *State) RecordConversion() {
	s.mu.Lock()
	s.conversions++
	s.mu.Unlock()
}

// RecordFrustration raises the dissatisfaction score from support chat.
func (s *State) RecordFrustration(amount float64) {
	if amount <= 0 {
		return
	}
	s.mu.Lock()
	s.dissatisfaction += amount
	s.mu.Unlock()
}

// Dissatisfaction returns the current score.
func (s *State) Dissatisfaction() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dissatisfaction
}

// DecayDissatisfaction releases the configured fraction of the score. The
// source system never forgave frustration; the hook is off unless configured.
func (s *State) DecayDissatisfaction(fraction float64) {
	if fraction <= 0 {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	s.mu.Lock()
	s.dissatisfaction *= 1 - fraction
	s.mu.Unlock()
}

// Snapshot is the read-only admin view of the autonomy state.
type Snapshot struct {
	Syncing         bool      `json:"syncing"`
	Mood            string    `json:"ai_mood"`
	LastSync        time.Time `json:"last_sync"`
	Dissatisfaction float64   `json:"dissatisfaction_score"`
	Conversions     int64     `json:"conversion_count"`
	LastMultiplier  float64   `json:"last_multiplier"`
	Cycles          int64     `json:"cycle_count"`
}

// Snapshot returns a consistent copy for the admin surface.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Syncing:         s.syncing,
		Mood:            s.mood.String(),
		LastSync:        s.lastSync,
		Dissatisfaction: s.dissatisfaction,
		Conversions:     s.conversions,
		LastMultiplier:  s.lastMultiplier,
		Cycles:          s.cycles,
	}
}
