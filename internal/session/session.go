// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session models the user's editable query configuration: the SQL text plus
// the execution parameters sent along with it. It also provides the compact shareable
// token codec and the stores used to persist a session between runs.
package session

import "strings"

const (
	// MinPartitions is the smallest accepted partition count.
	MinPartitions = 1
	// MaxPartitions is the largest accepted partition count.
	MaxPartitions = 10
	// DefaultPartitions is used when no valid partition count is known.
	DefaultPartitions = 4
)

// InitialStatement is the statement offered when nothing has been saved or shared yet.
const InitialStatement = `SELECT 'hello' AS greeting, 42 AS answer;`

// Session is the user-editable configuration.
type Session struct {
	Statement         string `json:"statement"`
	Distributed       bool   `json:"distributed"`
	Partitions        int    `json:"partitions"`
	PartitionsPerTask int    `json:"partitions_per_task"`
}

// Default returns the built-in session.
func Default() Session {
	return Session{
		Statement:         InitialStatement,
		Distributed:       false,
		Partitions:        DefaultPartitions,
		PartitionsPerTask: DefaultPartitionsPerTask(DefaultPartitions),
	}
}

// DefaultPartitionsPerTask returns floor(partitions/2), or 1 when that is zero.
func DefaultPartitionsPerTask(partitions int) int {
	if n := partitions / 2; n > 0 {
		return n
	}
	return 1
}

// WithPartitions changes the partition count and recomputes PartitionsPerTask in the
// same update, so the pair never leaves this method out of range.
func (s Session) WithPartitions(partitions int) Session {
	s.Partitions = partitions
	s.PartitionsPerTask = DefaultPartitionsPerTask(partitions)
	return s
}

// WithDistributed toggles distributed scheduling. Turning it on resets
// PartitionsPerTask to the default for the current partition count.
func (s Session) WithDistributed(distributed bool) Session {
	s.Distributed = distributed
	if distributed {
		s.PartitionsPerTask = DefaultPartitionsPerTask(s.Partitions)
	}
	return s
}

// WithPartitionsPerTask sets PartitionsPerTask as given; out of range values are
// clamped when read through Normalized.
func (s Session) WithPartitionsPerTask(n int) Session {
	s.PartitionsPerTask = n
	return s
}

// WithStatement replaces the statement text.
func (s Session) WithStatement(statement string) Session {
	s.Statement = statement
	return s
}

// Normalized returns the session with partition values resolved the same way a
// decoded token is: out of range partitions fall back to DefaultPartitions, and
// PartitionsPerTask outside 1..Partitions falls back to DefaultPartitionsPerTask.
func (s Session) Normalized() Session {
	s.Partitions = resolvePartitions(s.Partitions)
	s.PartitionsPerTask = resolvePartitionsPerTask(s.PartitionsPerTask, s.Partitions)
	return s
}

// Valid reports whether the partition invariants hold.
func (s Session) Valid() bool {
	return s.Partitions >= MinPartitions && s.Partitions <= MaxPartitions &&
		s.PartitionsPerTask >= 1 && s.PartitionsPerTask <= s.Partitions
}

// Statements splits the statement text on ';', trims every piece and drops the empty
// ones. Order is preserved.
func (s Session) Statements() []string {
	return SplitStatements(s.Statement)
}

// SplitStatements splits raw SQL source into trimmed, non-empty statements.
func SplitStatements(text string) []string {
	parts := strings.Split(text, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func resolvePartitions(p int) int {
	if p >= MinPartitions && p <= MaxPartitions {
		return p
	}
	return DefaultPartitions
}

func resolvePartitionsPerTask(n, partitions int) int {
	if n >= 1 && n <= partitions {
		return n
	}
	return DefaultPartitionsPerTask(partitions)
}
