// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package request drives the lifecycle of a query execution: it submits a session
// to the backend, post-processes the plan diagram on success and publishes the
// resulting state to whoever renders it.
package request

import "fiddle/cli/internal/backend"

// Status identifies which variant of State is active.
type Status int

const (
	Idle Status = iota
	Loading
	Failed
	Succeeded
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// State is the observable request state. Message and Err are set only when
// Status is Failed; Result only when Status is Succeeded.
type State struct {
	Status  Status
	Message string
	Err     error
	Result  *backend.Result
	// Generation identifies the execution attempt that produced this state.
	// Idle states produced by Clear carry the generation they invalidated.
	Generation uint64
}

// Terminal reports whether the attempt has settled.
func (s State) Terminal() bool {
	return s.Status == Failed || s.Status == Succeeded
}
