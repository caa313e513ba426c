package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitness-portal/internal/integrations/gymapi"
	"fitness-portal/pkg/customvalidator"
	"fitness-portal/pkg/eventbus"
	"fitness-portal/pkg/utils"
)

type upstreamCall struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

// upstream - фейковый REST API: ответы по "METHOD /path".
type upstream struct {
	mu     sync.Mutex
	routes map[string]func(w http.ResponseWriter, r *http.Request)
	calls  []upstreamCall
}

func newUpstream(t *testing.T) (*upstream, *gymapi.Client) {
	t.Helper()
	u := &upstream{routes: map[string]func(w http.ResponseWriter, r *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.calls = append(u.calls, upstreamCall{Method: r.Method, Path: r.URL.Path, Body: string(body), Auth: r.Header.Get("Authorization")})
		handler, ok := u.routes[r.Method+" "+r.URL.Path]
		u.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return u, gymapi.New(srv.URL, 5*time.Second, zap.NewNop())
}

func (u *upstream) on(method, path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// onWait отвечает как on, но сначала ждет закрытия release.
func (u *upstream) onWait(method, path string, release <-chan struct{}, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func (u *upstream) callsTo(method string) []upstreamCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []upstreamCall
	for _, c := range u.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (u *upstream) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

func newTestValidator(t *testing.T) *utils.CustomValidator {
	t.Helper()
	v := validator.New()
	require.NoError(t, customvalidator.RegisterCustomValidations(v))
	return utils.NewValidator(v)
}

// recordingBus запоминает опубликованные события синхронно.
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, event eventbus.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

func (b *recordingBus) named(name string) []eventbus.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []eventbus.Event
	for _, e := range b.events {
		if e.Name() == name {
			out = append(out, e)
		}
	}
	return out
}

func jsonBody(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}
