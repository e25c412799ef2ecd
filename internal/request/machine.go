// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package request

import (
	"context"
	"sync"

	"fiddle/cli/internal/backend"
	ferrors "fiddle/cli/internal/errors"
	"fiddle/cli/internal/session"

	"go.uber.org/zap"
)

// Gateway submits one execution request. backend.API satisfies it.
type Gateway interface {
	Execute(ctx context.Context, req backend.Request) (*backend.Result, error)
}

// Diagrammer converts diagram source to SVG, reporting false when it could not.
type Diagrammer interface {
	Render(ctx context.Context, src string) (string, bool)
}

// SessionStore persists the last executed session.
type SessionStore interface {
	Load() (session.Session, bool, error)
	Save(session.Session) error
}

// LinkStore holds the current share token.
type LinkStore interface {
	Token() (string, bool)
	SetToken(token string) error
}

// Source tells where InitialSession found its session.
type Source string

const (
	FromLink    Source = "link"
	FromStore   Source = "store"
	FromDefault Source = "default"
)

// Machine owns the request state. Every Execute call is tagged with a generation;
// a settlement is applied only while its generation is the latest issued, so the
// most recently issued call wins regardless of settlement order.
type Machine struct {
	gateway  Gateway
	diagram  Diagrammer
	sessions SessionStore
	links    LinkStore
	log      *zap.Logger

	mu        sync.Mutex
	state     State
	issued    uint64
	listeners []func(State)
}

// Option configures a Machine.
type Option func(*Machine)

// WithDiagrammer enables diagram post-processing.
func WithDiagrammer(d Diagrammer) Option { return func(m *Machine) { m.diagram = d } }

// WithSessionStore persists every executed session.
func WithSessionStore(s SessionStore) Option { return func(m *Machine) { m.sessions = s } }

// WithLinkStore sets where share tokens are read from and written to.
func WithLinkStore(l LinkStore) Option { return func(m *Machine) { m.links = l } }

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option { return func(m *Machine) { m.log = l } }

// NewMachine returns a Machine in the Idle state.
func NewMachine(gw Gateway, opts ...Option) *Machine {
	m := &Machine{gateway: gw, log: zap.NewNop()}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m
}

// OnChange registers fn to be called with every applied state. Listeners run on
// the goroutine that applied the state and must not call Execute.
func (m *Machine) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Execute runs one execution attempt for s and returns the state it settled
// into. When a newer Execute or Clear was issued meanwhile, the returned state
// is not applied and State() keeps reporting the newer attempt.
//
// Execution never fails as a Go error: gateway errors become a Failed state,
// and diagram failures leave Result.GraphvizSVG empty.
func (m *Machine) Execute(ctx context.Context, s session.Session) State {
	s = s.Normalized()
	if m.sessions != nil {
		if err := m.sessions.Save(s); err != nil {
			m.log.Warn("persist session", zap.Error(err))
		}
	}

	m.mu.Lock()
	m.issued++
	gen := m.issued
	loading := State{Status: Loading, Generation: gen}
	listeners := m.apply(loading)
	m.mu.Unlock()
	notify(listeners, loading)

	req := backend.Request{
		Stmts:             s.Statements(),
		Distributed:       s.Distributed,
		Partitions:        s.Partitions,
		PartitionsPerTask: s.PartitionsPerTask,
	}
	m.log.Debug("execute", zap.Uint64("generation", gen), zap.Int("statements", len(req.Stmts)))

	res, err := m.gateway.Execute(ctx, req)
	if err == nil && res == nil {
		err = ferrors.New(ferrors.Unexpected, "empty response from query service")
	}

	var next State
	if err != nil {
		next = State{Status: Failed, Message: ferrors.Message(err), Err: err, Generation: gen}
	} else {
		res.GraphvizSVG = ""
		if res.Graphviz != "" && m.diagram != nil {
			if svg, ok := m.diagram.Render(ctx, res.Graphviz); ok {
				res.GraphvizSVG = svg
			}
		}
		next = State{Status: Succeeded, Result: res, Generation: gen}
	}

	m.mu.Lock()
	if gen != m.issued {
		latest := m.issued
		m.mu.Unlock()
		m.log.Debug("discarding stale settlement",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", latest),
			zap.Stringer("status", next.Status),
		)
		return next
	}
	listeners = m.apply(next)
	m.mu.Unlock()
	notify(listeners, next)
	return next
}

// Clear returns to Idle and discards any in-flight settlement.
func (m *Machine) Clear() {
	m.mu.Lock()
	m.issued++
	idle := State{Status: Idle, Generation: m.issued}
	listeners := m.apply(idle)
	m.mu.Unlock()
	notify(listeners, idle)
}

// InitialSession resolves the session to start from: a decodable share token
// wins over the persisted session, which wins over the built-in default.
// Malformed tokens and unreadable stores fall through silently.
func (m *Machine) InitialSession() (session.Session, Source) {
	if m.links != nil {
		if token, ok := m.links.Token(); ok {
			if s, ok := session.Decode(token); ok {
				return s, FromLink
			}
			m.log.Debug("ignoring malformed share token",
				zap.String("kind", string(ferrors.Decode)),
				zap.Int("length", len(token)),
			)
		}
	}
	if m.sessions != nil {
		s, ok, err := m.sessions.Load()
		if err != nil {
			m.log.Warn("load persisted session", zap.Error(err))
		} else if ok {
			return s.Normalized(), FromStore
		}
	}
	return session.Default(), FromDefault
}

// Share encodes s, records the token in the link store and returns it.
func (m *Machine) Share(s session.Session) (string, error) {
	token := session.Encode(s.Normalized())
	if m.links != nil {
		if err := m.links.SetToken(token); err != nil {
			return token, err
		}
	}
	return token, nil
}

// apply must be called with mu held; it returns the listeners to notify.
func (m *Machine) apply(s State) []func(State) {
	m.state = s
	if len(m.listeners) == 0 {
		return nil
	}
	return append(([]func(State))(nil), m.listeners...)
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
