package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/callsched/internal/calls"
	"github.com/example/callsched/internal/internaltypes"
	"github.com/example/callsched/internal/monitor"
	"github.com/example/callsched/internal/vapi"
)

type fakeCalls struct {
	got    calls.Input
	res    calls.Result
	err    error
	record vapi.CallRecord
	recErr error
}

func (f *fakeCalls) PlaceCall(ctx context.Context, in calls.Input) (calls.Result, error) {
	f.got = in
	return f.res, f.err
}

func (f *fakeCalls) CallStatus(ctx context.Context, id string) (vapi.CallRecord, error) {
	return f.record, f.recErr
}

type fakeActive []monitor.Entry

func (f fakeActive) Active() []monitor.Entry { return f }

func newTestServer(t *testing.T, svc CallService, cfg Config) *Server {
	t.Helper()
	s, err := NewServer(cfg, svc, fakeActive{{CallID: "c1", UserName: "Ann", StartedAt: time.Now()}},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
	require.NoError(t, err)
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServerRequiresService(t *testing.T) {
	_, err := NewServer(Config{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeCalls{}, Config{Credentials: Credentials{VapiKey: true, PokeKey: false}})
	rec := do(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "Present", resp.Environment["vapiKey"])
	assert.Equal(t, "Missing", resp.Environment["vapiPhone"])
	assert.Equal(t, "Missing", resp.Environment["pokeKey"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestDebug(t *testing.T) {
	s := newTestServer(t, &fakeCalls{}, Config{Version: "1.0.0"})
	rec := do(s, http.MethodGet, "/debug", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DebugResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Contains(t, resp.Endpoints, "/mcp")
	require.Len(t, resp.ActiveCalls, 1)
	assert.Equal(t, "c1", resp.ActiveCalls[0].CallID)
}

func TestHandleRequest(t *testing.T) {
	t.Run("places call", func(t *testing.T) {
		svc := &fakeCalls{res: calls.Result{Success: true, CallID: "call-1", Status: calls.StatusInitiated}}
		s := newTestServer(t, svc, Config{RateLimit: 100, RateBurst: 100})

		rec := do(s, http.MethodPost, "/api/v1/requests",
			`{"body":"Call 555-123-4567 for 2 tonight","user":{"name":"Ann","email":"a@x.io","phone":"+15550001111","timezone":"America/Chicago"}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var res calls.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "call-1", res.CallID)
		assert.Equal(t, "Call 555-123-4567 for 2 tonight", svc.got.Request)
		assert.Equal(t, "Ann", svc.got.UserName)
		assert.Equal(t, "+15550001111", svc.got.UserPhone)
		assert.Equal(t, "America/Chicago", svc.got.TimeZone)
		assert.Empty(t, svc.got.PhoneNumber)
	})

	t.Run("email stands in for name", func(t *testing.T) {
		svc := &fakeCalls{}
		s := newTestServer(t, svc, Config{RateLimit: 100, RateBurst: 100})
		rec := do(s, http.MethodPost, "/api/v1/requests", `{"body":"call 5551234567","user":{"email":"a@x.io"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@x.io", svc.got.UserName)
	})

	t.Run("missing body", func(t *testing.T) {
		s := newTestServer(t, &fakeCalls{}, Config{RateLimit: 100, RateBurst: 100})
		rec := do(s, http.MethodPost, "/api/v1/requests", `{"user":{"name":"Ann"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no phone", func(t *testing.T) {
		s := newTestServer(t, &fakeCalls{err: calls.ErrNoPhoneNumber}, Config{RateLimit: 100, RateBurst: 100})
		rec := do(s, http.MethodPost, "/api/v1/requests", `{"body":"dinner at Nobu"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No valid phone number")
	})

	t.Run("config error is 500", func(t *testing.T) {
		s := newTestServer(t, &fakeCalls{err: internaltypes.ErrConfigIncomplete}, Config{RateLimit: 100, RateBurst: 100})
		rec := do(s, http.MethodPost, "/api/v1/requests", `{"body":"call 5551234567"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing API keys")
	})

	t.Run("rate limited", func(t *testing.T) {
		s := newTestServer(t, &fakeCalls{}, Config{RateLimit: 0.001, RateBurst: 1})
		first := do(s, http.MethodPost, "/api/v1/requests", `{"body":"call 5551234567"}`)
		second := do(s, http.MethodPost, "/api/v1/requests", `{"body":"call 5551234567"}`)
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
	})
}

func TestCallStatus(t *testing.T) {
	t.Run("returns record", func(t *testing.T) {
		reason := "customer-ended-call"
		svc := &fakeCalls{record: vapi.CallRecord{ID: "c1", Status: vapi.StatusEnded, DurationSeconds: 30, EndedReason: &reason}}
		s := newTestServer(t, svc, Config{})
		rec := do(s, http.MethodGet, "/call-status/c1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CallStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "c1", resp.ID)
		assert.Equal(t, vapi.StatusEnded, resp.Status)
		assert.Equal(t, 30, resp.Duration)
		require.NotNil(t, resp.EndedReason)
	})

	t.Run("unknown call", func(t *testing.T) {
		s := newTestServer(t, &fakeCalls{recErr: internaltypes.ErrNotFound}, Config{})
		rec := do(s, http.MethodGet, "/call-status/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMetricsAndMCPMounted(t *testing.T) {
	s := newTestServer(t, &fakeCalls{}, Config{RateLimit: 100, RateBurst: 100})

	rec := do(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodPost, "/mcp", `{}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
