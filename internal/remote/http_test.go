package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/EcoChat/internal/core"
)

func newTestHTTPAnswerer(t *testing.T, schema Schema, handler http.HandlerFunc) *HTTPAnswerer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewHTTPAnswerer(HTTPOptions{
		Endpoint: srv.URL + "/ask",
		Schema:   schema,
		UserID:   "user1",
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return a
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestHTTPAnswerer_AskSchema(t *testing.T) {
	var got map[string]any
	a := newTestHTTPAnswerer(t, SchemaAsk, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"answer":"It is a shopping assistant."}`)
	})

	answer, err := a.Ask(context.Background(), core.Question{Text: "What is EcoCart?"})

	require.NoError(t, err)
	assert.Equal(t, "It is a shopping assistant.", answer)
	assert.Equal(t, map[string]any{"question": "What is EcoCart?"}, got)
}

func TestHTTPAnswerer_ChatSchema(t *testing.T) {
	var got map[string]any
	a := newTestHTTPAnswerer(t, SchemaChat, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"response":"**Returns** are free."}`)
	})

	answer, err := a.Ask(context.Background(), core.Question{Text: "returns?"})

	require.NoError(t, err)
	assert.Equal(t, "**Returns** are free.", answer)
	assert.Equal(t, map[string]any{"message": "returns?", "user_id": "user1"}, got)
}

func TestHTTPAnswerer_Failures(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		status int
		body   string
		kind   ErrorKind
	}{
		{"server error", SchemaAsk, http.StatusInternalServerError, `{"detail":"boom"}`, KindStatus},
		{"not found", SchemaAsk, http.StatusNotFound, `not found`, KindStatus},
		{"malformed json", SchemaAsk, http.StatusOK, `{"answer":`, KindSchema},
		{"missing field", SchemaAsk, http.StatusOK, `{"response":"wrong variant"}`, KindSchema},
		{"empty answer", SchemaAsk, http.StatusOK, `{"answer":""}`, KindSchema},
		{"wrong type", SchemaAsk, http.StatusOK, `{"answer":42}`, KindSchema},
		{"chat missing response", SchemaChat, http.StatusOK, `{"answer":"wrong variant"}`, KindSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestHTTPAnswerer(t, tt.schema, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			answer, err := a.Ask(context.Background(), core.Question{Text: "q"})

			assert.Empty(t, answer)
			var remoteErr *Error
			require.True(t, errors.As(err, &remoteErr), "got %v", err)
			assert.Equal(t, tt.kind, remoteErr.Kind)
			if tt.kind == KindStatus {
				assert.Equal(t, tt.status, remoteErr.Status)
			}
		})
	}
}

func TestHTTPAnswerer_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	a, err := NewHTTPAnswerer(HTTPOptions{Endpoint: endpoint, Logger: zerolog.Nop()})
	require.NoError(t, err)

	_, err = a.Ask(context.Background(), core.Question{Text: "q"})

	var remoteErr *Error
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, KindTransport, remoteErr.Kind)
}

func TestHTTPAnswerer_ContextDeadline(t *testing.T) {
	a := newTestHTTPAnswerer(t, SchemaAsk, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Ask(ctx, core.Question{Text: "q"})

	var remoteErr *Error
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, KindTransport, remoteErr.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewHTTPAnswerer_Validation(t *testing.T) {
	_, err := NewHTTPAnswerer(HTTPOptions{})
	assert.Error(t, err)

	_, err = NewHTTPAnswerer(HTTPOptions{Endpoint: "localhost:8001"})
	assert.Error(t, err)

	_, err = NewHTTPAnswerer(HTTPOptions{Endpoint: "http://localhost:8001/ask", Schema: "graphql"})
	assert.Error(t, err)
}

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema("")
	require.NoError(t, err)
	assert.Equal(t, SchemaAsk, s)

	s, err = ParseSchema(" CHAT ")
	require.NoError(t, err)
	assert.Equal(t, SchemaChat, s)

	_, err = ParseSchema("other")
	assert.Error(t, err)
}
