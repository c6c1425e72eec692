package middleware_test

import (
	"net/http/httptest"
	"testing"

	"report-sync/core/middleware/auth"
	"report-sync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Use(auth.New(auth.Config{ApiKey: key, Skip: []string{"/metrics"}}))
	handler := func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(rayid.LocalsKey).(string))
	}
	app.Get("/reports", handler)
	app.Get("/metrics", handler)
	return app
}

func TestRayID(t *testing.T) {
	app := newApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(rayid.Header))

	req := httptest.NewRequest("GET", "/reports", nil)
	req.Header.Set(rayid.Header, "trace-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "trace-1", resp.Header.Get(rayid.Header))
}

func TestAuth(t *testing.T) {
	app := newApp("secret")

	tests := []struct {
		name   string
		path   string
		header string
		value  string
		status int
	}{
		{"Missing key", "/reports", "", "", 401},
		{"Wrong key", "/reports", auth.Header, "nope", 401},
		{"API key header", "/reports", auth.Header, "secret", 200},
		{"Bearer token", "/reports", fiber.HeaderAuthorization, "Bearer secret", 200},
		{"Skipped path", "/metrics", "", "", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
