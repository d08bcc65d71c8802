package request

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebook/pkg/requestcontext"
)

func captureContext(requestID, actorID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requestID = requestcontext.RequestID(r.Context())
		*actorID = requestcontext.ActorID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates a UUID without a header", func(t *testing.T) {
		var requestID, actorID string
		w := httptest.NewRecorder()
		RequestID(captureContext(&requestID, &actorID)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))

		assert.Len(t, requestID, 36)
		assert.Equal(t, requestID, w.Header().Get(HeaderRequestID))
	})

	t.Run("keeps a valid client id", func(t *testing.T) {
		var requestID, actorID string
		req := httptest.NewRequest(http.MethodGet, "/state", nil)
		req.Header.Set(HeaderRequestID, "trace.span-42")
		RequestID(captureContext(&requestID, &actorID)).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "trace.span-42", requestID)
	})

	t.Run("replaces an unsafe client id", func(t *testing.T) {
		var requestID, actorID string
		req := httptest.NewRequest(http.MethodGet, "/state", nil)
		req.Header.Set(HeaderRequestID, "bad id\ninjected")
		RequestID(captureContext(&requestID, &actorID)).ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEqual(t, "bad id\ninjected", requestID)
		assert.Len(t, requestID, 36)
	})
}

func TestActor(t *testing.T) {
	t.Run("stores the actor", func(t *testing.T) {
		var requestID, actorID string
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.Header.Set(HeaderActorID, "user-7")
		Actor(captureContext(&requestID, &actorID)).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "user-7", actorID)
	})

	t.Run("ignores oversized values", func(t *testing.T) {
		var requestID, actorID string
		req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
		req.Header.Set(HeaderActorID, strings.Repeat("x", MaxRequestIDLength+1))
		Actor(captureContext(&requestID, &actorID)).ServeHTTP(httptest.NewRecorder(), req)

		assert.Empty(t, actorID)
	})
}

func TestIsValidID(t *testing.T) {
	for _, id := range []string{"abc123", "ABC-123", "request_id", "a.b.c", strings.Repeat("x", MaxRequestIDLength)} {
		assert.True(t, isValidID(id), id)
	}
	for _, id := range []string{"", strings.Repeat("x", MaxRequestIDLength+1), "has space", "semi;colon", `quo"te`} {
		assert.False(t, isValidID(id), id)
	}
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	handler := Recovery(slog.New(slog.NewTextHandler(&logs, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestContentTypeJSON(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	ContentTypeJSON(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w = httptest.NewRecorder()
	ContentTypeJSON(ok).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 8))))
	require.NoError(t, readErr)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}

func TestLatency(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	handler := Latency(m, func(*http.Request) string { return "/state" })(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, 1, testutil.CollectAndCount(m.EndpointLatency))
}
