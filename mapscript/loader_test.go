package mapscript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	mu        sync.Mutex
	global    bool
	injects   int32
	removes   int32
	outcome   Event
	release   chan struct{}
	setOnLoad bool
}

func (h *fakeHost) HasGlobal() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.global
}

func (h *fakeHost) Inject(ctx context.Context, id, src string) <-chan Event {
	atomic.AddInt32(&h.injects, 1)
	events := make(chan Event, 1)
	go func() {
		if h.release != nil {
			<-h.release
		}
		if h.outcome.Type == EventLoad && h.setOnLoad {
			h.mu.Lock()
			h.global = true
			h.mu.Unlock()
		}
		events <- h.outcome
		close(events)
	}()
	return events
}

func (h *fakeHost) Remove(id string) {
	atomic.AddInt32(&h.removes, 1)
}

func staticConfig(id string, fetches *int32) ConfigSource {
	return ConfigSourceFunc(func(ctx context.Context) (string, error) {
		if fetches != nil {
			atomic.AddInt32(fetches, 1)
		}
		return id, nil
	})
}

func TestConcurrentLoadsInjectOnce(t *testing.T) {
	host := &fakeHost{outcome: Event{Type: EventLoad}, setOnLoad: true, release: make(chan struct{})}
	loader := NewLoader(staticConfig("abc", nil), host, "https://maps.example/maps.js")

	const callers = 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- loader.Load(context.Background())
		}()
	}

	require.Eventually(t, func() bool {
		state, _ := loader.State()
		return state == StateLoading && atomic.LoadInt32(&host.injects) == 1
	}, time.Second, time.Millisecond)
	close(host.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&host.injects))

	state, err := loader.State()
	assert.Equal(t, StateLoaded, state)
	assert.NoError(t, err)

	// Already loaded: no further work
	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&host.injects))
}

func TestConcurrentLoadsShareFailure(t *testing.T) {
	host := &fakeHost{outcome: Event{Type: EventAuthFailure}, release: make(chan struct{})}
	loader := NewLoader(staticConfig("abc", nil), host, "https://maps.example/maps.js")

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- loader.Load(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&host.injects) == 1 }, time.Second, time.Millisecond)
	close(host.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, ErrAuthFailure)
	}
}

func TestFailureIsCachedUntilReset(t *testing.T) {
	var fetches int32
	host := &fakeHost{outcome: Event{Type: EventError, Err: errors.New("boom")}}
	loader := NewLoader(staticConfig("abc", &fetches), host, "https://maps.example/maps.js")

	err := loader.Load(context.Background())
	require.ErrorIs(t, err, ErrScriptLoad)

	// Cached: no refetch, same error
	assert.ErrorIs(t, loader.Load(context.Background()), ErrScriptLoad)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	assert.Equal(t, int32(1), atomic.LoadInt32(&host.injects))

	state, cached := loader.State()
	assert.Equal(t, StateFailed, state)
	assert.ErrorIs(t, cached, ErrScriptLoad)

	require.True(t, loader.Reset())
	state, _ = loader.State()
	assert.Equal(t, StateIdle, state)

	host.mu.Lock()
	host.outcome = Event{Type: EventLoad}
	host.setOnLoad = true
	host.mu.Unlock()

	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
	assert.Equal(t, int32(2), atomic.LoadInt32(&host.injects))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&host.removes), int32(2))
}

func TestRetryAfterResetStartsFreshAttempt(t *testing.T) {
	host := &fakeHost{outcome: Event{Type: EventError, Err: errors.New("boom")}}
	loader := NewLoader(staticConfig("abc", nil), host, "https://maps.example/maps.js")

	require.ErrorIs(t, loader.Load(context.Background()), ErrScriptLoad)

	// Keep the failed attempt registered, as singleflight does until its function returns
	stale := make(chan struct{})
	defer close(stale)
	loader.group.DoChan(attemptKey(0), func() (interface{}, error) {
		<-stale
		return nil, ErrScriptLoad
	})

	host.mu.Lock()
	host.outcome = Event{Type: EventLoad}
	host.setOnLoad = true
	host.mu.Unlock()

	require.True(t, loader.Reset())
	done := make(chan error, 1)
	go func() { done <- loader.Load(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("retry joined the stale attempt")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&host.injects))
	state, err := loader.State()
	assert.Equal(t, StateLoaded, state)
	assert.NoError(t, err)
}

func TestResetOutsideFailedDoesNothing(t *testing.T) {
	host := &fakeHost{outcome: Event{Type: EventLoad}, setOnLoad: true}
	loader := NewLoader(staticConfig("abc", nil), host, "https://maps.example/maps.js")

	assert.False(t, loader.Reset())
	require.NoError(t, loader.Load(context.Background()))
	assert.False(t, loader.Reset())

	state, _ := loader.State()
	assert.Equal(t, StateLoaded, state)
}

func TestLoadFailureCauses(t *testing.T) {
	tests := []struct {
		name   string
		config ConfigSource
		host   *fakeHost
		want   error
	}{
		{
			name: "config fetch fails",
			config: ConfigSourceFunc(func(ctx context.Context) (string, error) {
				return "", errors.New("network down")
			}),
			host: &fakeHost{outcome: Event{Type: EventLoad}},
			want: ErrConfigFetch,
		},
		{
			name:   "empty client id",
			config: staticConfig("", nil),
			host:   &fakeHost{outcome: Event{Type: EventLoad}},
			want:   ErrMissingClientID,
		},
		{
			name:   "script error",
			config: staticConfig("abc", nil),
			host:   &fakeHost{outcome: Event{Type: EventError}},
			want:   ErrScriptLoad,
		},
		{
			name:   "auth failure",
			config: staticConfig("abc", nil),
			host:   &fakeHost{outcome: Event{Type: EventAuthFailure}},
			want:   ErrAuthFailure,
		},
		{
			name:   "loaded without global",
			config: staticConfig("abc", nil),
			host:   &fakeHost{outcome: Event{Type: EventLoad}},
			want:   ErrGlobalMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(tt.config, tt.host, "https://maps.example/maps.js")
			err := loader.Load(context.Background())
			assert.ErrorIs(t, err, tt.want)

			state, _ := loader.State()
			assert.Equal(t, StateFailed, state)
		})
	}
}

func TestExistingGlobalSkipsInjection(t *testing.T) {
	host := &fakeHost{global: true}
	loader := NewLoader(staticConfig("abc", nil), host, "https://maps.example/maps.js")

	require.NoError(t, loader.Load(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(&host.injects))
	state, _ := loader.State()
	assert.Equal(t, StateLoaded, state)
}

func TestCancelledWaiterDoesNotAbortLoad(t *testing.T) {
	host := &fakeHost{outcome: Event{Type: EventLoad}, setOnLoad: true, release: make(chan struct{})}
	loader := NewLoader(staticConfig("abc", nil), host, "https://maps.example/maps.js")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loader.Load(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&host.injects) == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(host.release)
	require.Eventually(t, func() bool {
		state, _ := loader.State()
		return state == StateLoaded
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&host.injects))
}

func TestScriptSource(t *testing.T) {
	src, err := ScriptSource("https://oapi.map.naver.com/openapi/v3/maps.js", "454vo4765n")
	require.NoError(t, err)
	assert.Equal(t, "https://oapi.map.naver.com/openapi/v3/maps.js?ncpKeyId=454vo4765n&submodules=geocoder", src)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
}

func TestHTTPHostAndConfigSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/naver/client-id", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"clientId":"abc"}`))
	})
	mux.HandleFunc("/maps.js", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ncpKeyId") != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`window.naver = window.naver || {}; naver.maps = {};`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	host := NewHTTPHost(server.Client())
	loader := NewLoader(&HTTPConfigSource{BaseURL: server.URL, Client: server.Client()}, host, server.URL+"/maps.js")

	require.NoError(t, loader.Load(context.Background()))
	body, ok := host.Script(ScriptID)
	require.True(t, ok)
	assert.Contains(t, string(body), "naver.maps")
}

func TestHTTPHostBundleWithoutNamespace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	host := NewHTTPHost(server.Client())
	loader := NewLoader(staticConfig("abc", nil), host, server.URL+"/maps.js")

	assert.ErrorIs(t, loader.Load(context.Background()), ErrGlobalMissing)
	assert.False(t, host.HasGlobal())
}

func TestHTTPHostAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	host := NewHTTPHost(server.Client())
	loader := NewLoader(staticConfig("wrong", nil), host, server.URL+"/maps.js")

	assert.ErrorIs(t, loader.Load(context.Background()), ErrAuthFailure)
	_, ok := host.Script(ScriptID)
	assert.False(t, ok)
}
