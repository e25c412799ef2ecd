// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the
// fiddle query service. It defines the API contract for statement execution and
// version checking, the JSON wire types, and an HTTP implementation.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call the real HTTP service, a local database, or provide mocks for tests.
type API interface {
	// Execute submits one execution request and waits for its outcome. Failures are
	// *errors.E values of kind validation, unexpected or network.
	Execute(ctx context.Context, req Request) (*Result, error)
	// GetVersion returns the backend version string, or "unknown".
	GetVersion(ctx context.Context) (string, error)
}
