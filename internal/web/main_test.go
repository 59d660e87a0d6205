package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
	"github.com/GoRealm-Admin/GoRealm-Admin/internal/web/handler"
)

func testApp(routeErr error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		return routeErr
	})

	return app
}

func envelopeOf(t *testing.T, app *fiber.App, path string) (int, handler.Envelope) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env handler.Envelope
	require.NoError(t, json.Unmarshal(body, &env))

	return resp.StatusCode, env
}

func TestErrorHandler_ApplicationError(t *testing.T) {
	app := testApp(apperr.ErrUserNotFound)

	status, env := envelopeOf(t, app, "/boom")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "User not found", env.Message)
}

func TestErrorHandler_ErrorWithData(t *testing.T) {
	app := testApp(apperr.ErrFailedDependency.WithMessage("upstream rejected").WithData("detail"))

	status, env := envelopeOf(t, app, "/boom")

	assert.Equal(t, fiber.StatusFailedDependency, status)
	assert.Equal(t, "upstream rejected", env.Message)
	assert.Equal(t, "detail", env.Data)
}

func TestErrorHandler_UnknownErrorBecomesInternal(t *testing.T) {
	app := testApp(errors.New("database exploded"))

	status, env := envelopeOf(t, app, "/boom")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", env.Message, "internal detail must not leak to clients")
}

func TestErrorHandler_FiberRoutingError(t *testing.T) {
	app := testApp(nil)

	status, env := envelopeOf(t, app, "/no-such-route")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
}
