// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import "fmt"

// State is the lifecycle stage of a Session.
type State uint8

const (
	// Uninitialized is the state of a disposed session.
	Uninitialized State = iota

	// Loading means the background image is being fetched and decoded.
	Loading

	// Ready means the background is in place and mutations are accepted.
	Ready

	// Error means the background could not be loaded. It is terminal.
	Error
)

var stateNames = [...]string{
	Uninitialized: "uninitialized",
	Loading:       "loading",
	Ready:         "ready",
	Error:         "error",
}

// String returns the lower-case state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("session: unknown state %q", text)
}

