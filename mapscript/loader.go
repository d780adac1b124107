// Package mapscript loads the third-party map bundle at most once per process and lets
// any number of callers wait on the same attempt.
package mapscript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ScriptID identifies the injected bundle in the host
const ScriptID = "naver-maps-api-script"

// State is the lifecycle of the map bundle
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrConfigFetch     = errors.New("failed to fetch map client id")
	ErrMissingClientID = errors.New("map client id is empty")
	ErrScriptLoad      = errors.New("failed to load map script")
	ErrAuthFailure     = errors.New("map provider rejected the client id")
	ErrGlobalMissing   = errors.New("map script loaded but the maps global is missing")
)

// ConfigSource returns the public client id used to build the script URL
type ConfigSource interface {
	ClientID(ctx context.Context) (string, error)
}

// ConfigSourceFunc adapts a function to ConfigSource
type ConfigSourceFunc func(ctx context.Context) (string, error)

func (f ConfigSourceFunc) ClientID(ctx context.Context) (string, error) {
	return f(ctx)
}

// EventType is the outcome a host reports for an injected script
type EventType int

const (
	EventLoad EventType = iota
	EventError
	EventAuthFailure
)

// Event is delivered once per injection
type Event struct {
	Type EventType
	Err  error
}

// Host is where the bundle ends up. It tells whether the maps global is already present
// and accepts at most one script per id.
type Host interface {
	HasGlobal() bool
	Inject(ctx context.Context, id, src string) <-chan Event
	Remove(id string)
}

// Loader coordinates a single load attempt. Concurrent Load calls share the in-flight
// attempt; a failure is cached until Reset.
type Loader struct {
	config    ConfigSource
	host      Host
	scriptURL string

	group singleflight.Group

	mu    sync.Mutex
	state State
	err   error
	// gen numbers load attempts; each has its own singleflight key and Reset advances it
	gen uint64
}

// NewLoader creates an idle loader
func NewLoader(config ConfigSource, host Host, scriptURL string) *Loader {
	return &Loader{
		config:    config,
		host:      host,
		scriptURL: scriptURL,
	}
}

// Load makes sure the bundle is available. It returns nil once loaded, the cached error
// after a failure, or ctx.Err() if the caller stops waiting. A cancelled waiter does not
// abort the shared attempt.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateLoaded:
		l.mu.Unlock()
		return nil
	case StateFailed:
		err := l.err
		l.mu.Unlock()
		return err
	}
	l.state = StateLoading
	gen := l.gen
	ch := l.group.DoChan(attemptKey(gen), func() (interface{}, error) {
		return nil, l.run(context.WithoutCancel(ctx), gen)
	})
	l.mu.Unlock()

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loader) run(ctx context.Context, gen uint64) error {
	err := l.acquire(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return err
	}
	if err != nil {
		l.state = StateFailed
		l.err = err
		slog.Error("map script load failed", "error", err)
		return err
	}
	l.state = StateLoaded
	l.err = nil
	return nil
}

func (l *Loader) acquire(ctx context.Context) error {
	clientID, err := l.config.ClientID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigFetch, err)
	}
	if clientID == "" {
		return ErrMissingClientID
	}

	if l.host.HasGlobal() {
		return nil
	}

	src, err := ScriptSource(l.scriptURL, clientID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScriptLoad, err)
	}

	// A stale element from an earlier failed attempt must not linger
	l.host.Remove(ScriptID)

	select {
	case ev, ok := <-l.host.Inject(ctx, ScriptID, src):
		if !ok {
			return ErrScriptLoad
		}
		switch ev.Type {
		case EventLoad:
			if !l.host.HasGlobal() {
				return ErrGlobalMissing
			}
			return nil
		case EventAuthFailure:
			return ErrAuthFailure
		default:
			if ev.Err != nil {
				return fmt.Errorf("%w: %v", ErrScriptLoad, ev.Err)
			}
			return ErrScriptLoad
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrScriptLoad, ctx.Err())
	}
}

// State returns the current state and, when failed, the cached error
func (l *Loader) State() (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.err
}

// Reset clears a cached failure so the next Load retries. It does nothing in any other
// state and reports whether it acted.
func (l *Loader) Reset() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateFailed {
		return false
	}
	l.state = StateIdle
	l.err = nil
	l.gen++
	return true
}

func attemptKey(gen uint64) string {
	return fmt.Sprintf("%s#%d", ScriptID, gen)
}

// ScriptSource builds the bundle URL for clientID with the geocoder submodule enabled
func ScriptSource(base, clientID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("ncpKeyId", clientID)
	q.Set("submodules", "geocoder")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
