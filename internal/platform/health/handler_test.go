package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedCheck struct {
	err error
}

func (c namedCheck) Name() string                  { return "redis" }
func (c namedCheck) Check(_ context.Context) error { return c.err }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivenessAndStatus(t *testing.T) {
	h := New("test")
	assert.Equal(t, http.StatusOK, serve(h, "/health/live").Code)

	rec := serve(h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "test", status.Environment)
	assert.Equal(t, Version, status.Version)
}

func TestReadiness(t *testing.T) {
	t.Run("ready when every check passes", func(t *testing.T) {
		h := New("test")
		h.RegisterChecker(namedCheck{})
		rec := serve(h, "/health/ready")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "up", resp.Checks["redis"])
	})

	t.Run("not ready when a check fails", func(t *testing.T) {
		h := New("test")
		h.RegisterChecker(namedCheck{})
		h.RegisterCheck("kafka", func(context.Context) error { return errors.New("no broker") })
		rec := serve(h, "/health/ready")

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "down: no broker", resp.Checks["kafka"])
		assert.Equal(t, "up", resp.Checks["redis"])
	})

	t.Run("checks get a deadline", func(t *testing.T) {
		h := New("test")
		var hasDeadline bool
		h.RegisterCheck("remote", func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})
		serve(h, "/health/ready")
		assert.True(t, hasDeadline)
	})
}
