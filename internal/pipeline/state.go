// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     pipeline
// Description: Job state machine
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package pipeline

import (
	"sync"
	"time"
)

// State represents the current stage of a narration job
type State int

const (
	// StateIdle - no job yet
	StateIdle State = iota

	// StateValidating - checking the submitted input
	StateValidating

	// StateRewriting - waiting for the tone rewrite
	StateRewriting

	// StateSynthesizing - converting rewritten text to audio
	StateSynthesizing

	// StatePersisting - writing text, audio and metadata files
	StatePersisting

	// StateDone - job finished, artifacts on disk
	StateDone

	// StateFailed - job aborted, error surfaced to the front-end
	StateFailed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRewriting:
		return "rewriting"
	case StateSynthesizing:
		return "synthesizing"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StateMachine manages state transitions
type StateMachine struct {
	mu            sync.RWMutex
	currentState  State
	previousState State
	stateTime     time.Time
	listeners     []StateChangeListener
}

// StateChangeListener is called when state changes
type StateChangeListener func(oldState, newState State)

// NewStateMachine creates a new state machine
func NewStateMachine() *StateMachine {
	return &StateMachine{
		currentState: StateIdle,
		stateTime:    time.Now(),
		listeners:    make([]StateChangeListener, 0),
	}
}

// Current returns the current state
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Previous returns the previous state
func (sm *StateMachine) Previous() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.previousState
}

// StateDuration returns how long the current state has been active
func (sm *StateMachine) StateDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return time.Since(sm.stateTime)
}

// Transition changes to a new state
func (sm *StateMachine) Transition(newState State) bool {
	sm.mu.Lock()
	oldState := sm.currentState

	if !sm.isValidTransition(oldState, newState) {
		sm.mu.Unlock()
		return false
	}

	sm.previousState = oldState
	sm.currentState = newState
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, newState)
	}

	return true
}

// AddListener adds a state change listener
func (sm *StateMachine) AddListener(listener StateChangeListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

// isValidTransition checks if a state transition is valid. Entering
// Validating doubles as the busy gate: it only succeeds from Idle, Done or
// Failed, so two jobs can never overlap on one orchestrator.
func (sm *StateMachine) isValidTransition(from, to State) bool {
	validTransitions := map[State][]State{
		StateIdle:         {StateValidating},
		StateValidating:   {StateRewriting, StateFailed},
		StateRewriting:    {StateSynthesizing, StateFailed},
		StateSynthesizing: {StatePersisting, StateFailed},
		StatePersisting:   {StateDone, StateFailed},
		StateDone:         {StateValidating},
		StateFailed:       {StateValidating},
	}

	validTargets, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, valid := range validTargets {
		if valid == to {
			return true
		}
	}

	return false
}

// Reset resets the state machine to idle
func (sm *StateMachine) Reset() {
	sm.mu.Lock()
	oldState := sm.currentState
	sm.previousState = oldState
	sm.currentState = StateIdle
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, StateIdle)
	}
}

// IsActive returns true while a job is running
func (sm *StateMachine) IsActive() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	switch sm.currentState {
	case StateValidating, StateRewriting, StateSynthesizing, StatePersisting:
		return true
	}
	return false
}
