// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates a backend API implementation talking to the query service at baseURL.
func New(baseURL string, endpoints Endpoints, opts ...Option) API {
	return newHTTP(baseURL, endpoints, opts...)
}
