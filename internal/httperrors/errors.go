// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures into troubleshooting hints.
package httperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	ferrors "fiddle/cli/internal/errors"
)

// Class is a coarse category of network failure.
type Class string

const (
	ClassNone    Class = ""
	ClassTimeout Class = "timeout"
	ClassDNS     Class = "dns"
	ClassRefused Class = "refused"
	ClassTLS     Class = "tls"
	ClassServer  Class = "server"
	ClassGeneric Class = "generic"
)

// Classify returns the failure class of err. Validation errors and nil have no class.
func Classify(err error) Class {
	if err == nil || ferrors.Is(err, ferrors.Validation) {
		return ClassNone
	}
	if ferrors.Is(err, ferrors.Unexpected) {
		var e *ferrors.E
		if errors.As(err, &e) && e.Status >= 500 {
			return ClassServer
		}
		return ClassNone
	}
	switch {
	case isTimeoutError(err):
		return ClassTimeout
	case isDNSError(err):
		return ClassDNS
	case isConnectionRefusedError(err):
		return ClassRefused
	case isSSLError(err):
		return ClassTLS
	case isServerError(err.Error()):
		return ClassServer
	}
	if ferrors.Is(err, ferrors.Network) {
		return ClassGeneric
	}
	return ClassNone
}

// Hint returns a short troubleshooting text for err, or "" when none applies.
// host names the backend in the text.
func Hint(err error, host string) string {
	if host == "" {
		host = "the query service"
	}
	switch Classify(err) {
	case ClassTimeout:
		return "The server took too long to respond. Check your connection or try again in a few moments."
	case ClassDNS:
		return "Cannot resolve " + host + ". Check your internet connection and DNS settings."
	case ClassRefused:
		return host + " is not accepting connections. Check the endpoint (--endpoint or FIDDLE_ENDPOINT) and that the service is running."
	case ClassTLS:
		return "Cannot establish a secure connection to " + host + ". Check your system clock and proxy settings."
	case ClassServer:
		return host + " encountered an internal error. This is not a problem with your query; try again later."
	case ClassGeneric:
		return "Cannot reach " + host + ". Check your internet connection and firewall settings."
	}
	return ""
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error indicates a server-side problem (5xx errors).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
