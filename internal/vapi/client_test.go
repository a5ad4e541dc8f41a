package vapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/callsched/internal/internaltypes"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "k", BaseURL: srv.URL + "/"})
}

func TestCreateCall(t *testing.T) {
	t.Run("sends payload and returns id", func(t *testing.T) {
		var got CreateCallRequest
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/call", r.URL.Path)
			assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			b, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(b, &got))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"call-1","status":"queued"}`))
		})

		id, err := c.CreateCall(context.Background(), CreateCallRequest{
			PhoneNumberID: "ph",
			AssistantID:   "as",
			Customer:      Customer{Number: "+15551234567"},
			AssistantOverrides: AssistantOverrides{VariableValues: map[string]string{
				"USER_NAME": "Ann",
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, "call-1", id)
		assert.Equal(t, "+15551234567", got.Customer.Number)
		assert.Equal(t, "Ann", got.AssistantOverrides.VariableValues["USER_NAME"])
	})

	t.Run("non-2xx is an APIError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`bad number`))
		})
		_, err := c.CreateCall(context.Background(), CreateCallRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "bad number", apiErr.Body)
		assert.Equal(t, "vapi call failed: 400 - bad number", err.Error())
	})
}

func TestGetCall(t *testing.T) {
	t.Run("decodes record", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/call/abc", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"id":"abc","status":"ended","duration":42.6,
				"endedReason":"customer-ended-call",
				"transcript":"yes, confirmed",
				"createdAt":"2026-01-02T18:00:00Z",
				"analysis":{"summary":"Booked a table","successEvaluation":"true"}
			}`))
		})
		rec, err := c.GetCall(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", rec.ID)
		assert.Equal(t, StatusEnded, rec.Status)
		assert.Equal(t, 43, rec.DurationSeconds)
		require.NotNil(t, rec.EndedReason)
		assert.Equal(t, "customer-ended-call", *rec.EndedReason)
		require.NotNil(t, rec.Summary)
		assert.Equal(t, "Booked a table", *rec.Summary)
		require.NotNil(t, rec.SuccessEvaluation)
		require.NotNil(t, rec.CreatedAt)
		assert.Nil(t, rec.EndedAt)
	})

	t.Run("empty strings become nil", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"abc","status":"ringing","summary":"","transcript":""}`))
		})
		rec, err := c.GetCall(context.Background(), "abc")
		require.NoError(t, err)
		assert.Nil(t, rec.Summary)
		assert.Nil(t, rec.Transcript)
		assert.Equal(t, 0, rec.DurationSeconds)
		assert.False(t, rec.Status.Terminal())
	})

	t.Run("404 is not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		_, err := c.GetCall(context.Background(), "missing")
		assert.True(t, errors.Is(err, internaltypes.ErrNotFound))
	})

	t.Run("5xx is an APIError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.GetCall(context.Background(), "abc")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 502, apiErr.StatusCode)
	})
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusEnded, StatusFailed, StatusBusy, StatusNoAnswer} {
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []Status{StatusQueued, StatusRinging, StatusInProgress, StatusForwarding, Status("")} {
		assert.False(t, s.Terminal(), s)
	}
}
