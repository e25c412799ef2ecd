// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth resolves the API token sent to the query service.
// The token comes from FIDDLE_TOKEN when set, otherwise from the OS keychain;
// without either, requests go out unauthenticated.
package auth

import (
	"errors"
	"strings"

	"fiddle/cli/internal/config"
	"fiddle/cli/internal/keychain"
)

// TokenStore persists the API token. *keychain.Manager satisfies it.
type TokenStore interface {
	SaveAPIToken(token string) error
	LoadAPIToken() (string, error)
	ClearAPIToken() error
}

// Source tells where a token came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceEnv      Source = "env"
	SourceKeychain Source = "keychain"
)

// ErrNoStore is returned by Login and Logout when no keychain is available.
var ErrNoStore = errors.New("secure storage is not available on this system; set " + config.EnvToken + " instead")

// Service centralizes token operations.
type Service struct {
	store  TokenStore
	getenv func(string) string
}

// NewService returns a Service. store may be nil when the keychain cannot be opened.
func NewService(store TokenStore, getenv func(string) string) *Service {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Service{store: store, getenv: getenv}
}

// Token returns the token to use and where it came from. Keychain read errors
// are treated as "no token".
func (s *Service) Token() (string, Source) {
	if t := strings.TrimSpace(s.getenv(config.EnvToken)); t != "" {
		return t, SourceEnv
	}
	if s.store != nil {
		if t, err := s.store.LoadAPIToken(); err == nil && t != "" {
			return t, SourceKeychain
		}
	}
	return "", SourceNone
}

// Login stores token in the keychain.
func (s *Service) Login(token string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.SaveAPIToken(token)
}

// Logout removes the stored token. It reports whether a token had been stored.
func (s *Service) Logout() (bool, error) {
	if s.store == nil {
		return false, ErrNoStore
	}
	_, err := s.store.LoadAPIToken()
	had := err == nil
	if err != nil && !errors.Is(err, keychain.ErrNotFound) {
		return false, err
	}
	return had, s.store.ClearAPIToken()
}
