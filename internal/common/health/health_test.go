package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestProbes(t *testing.T) {
	app := fiber.New()
	Register(app, map[string]Check{
		"db": func(context.Context) error { return nil },
	})

	for path, status := range map[string]string{
		"/health/live":    "alive",
		"/health/ready":   "ready",
		"/health/startup": "started",
	} {
		code, body := get(t, app, path)
		assert.Equal(t, http.StatusOK, code, path)
		assert.Equal(t, status, body["status"], path)
	}
}

func TestReadinessProbe_Failing(t *testing.T) {
	app := fiber.New()
	Register(app, map[string]Check{
		"db":        func(context.Context) error { return nil },
		"converter": func(context.Context) error { return errors.New("connection refused") },
	})

	code, body := get(t, app, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, map[string]any{"converter": "connection refused"}, body["checks"])
}
