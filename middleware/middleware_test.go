package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coderr/config"
	"coderr/services/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTKey(t *testing.T, key string) {
	t.Helper()
	prev := config.AppConfig
	cfg := *prev
	cfg.JWTKey = key
	config.AppConfig = &cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestTokenRoundTrip(t *testing.T) {
	withJWTKey(t, "round-trip")

	token, err := GenerateJWT(42, "business")
	require.NoError(t, err)

	id, err := parseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	withJWTKey(t, "rotated")
	_, err = parseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	withJWTKey(t, "secret")

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	cases := map[string]string{
		"garbage":   "not.a.token",
		"expired":   sign(jwt.MapClaims{"userId": 1, "exp": time.Now().Add(-time.Hour).Unix()}),
		"no user":   sign(jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
		"zero user": sign(jwt.MapClaims{"userId": 0, "exp": time.Now().Add(time.Hour).Unix()}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseToken(token)
			assert.Error(t, err)
		})
	}
}

func TestErrorResponseStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errs.Field("price", "A valid number is required."), fiber.StatusUnprocessableEntity},
		{errs.Unauthorized("Authentication credentials were not provided."), fiber.StatusUnauthorized},
		{errs.Forbidden("nope"), fiber.StatusForbidden},
		{errs.NotFound("Not found."), fiber.StatusNotFound},
		{errs.Conflict("taken", nil), fiber.StatusConflict},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, err) })

		resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, reqErr)

		var body struct {
			Status  bool              `json:"status"`
			Message string            `json:"message"`
			Data    map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.False(t, body.Status)
		if tc.status == fiber.StatusInternalServerError {
			assert.Equal(t, "Something went wrong!", body.Message)
		}
	}

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return ErrorResponse(c, errs.Field("price", "A valid number is required."))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "A valid number is required.", body.Data["price"])
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(2))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusNoContent, fiber.StatusNoContent, fiber.StatusTooManyRequests}, codes)
}

func TestRateLimiterStoreDropsIdleClients(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store := newRateLimiterStore(60)
	store.now = func() time.Time { return clock }
	store.lastSweep = base

	a := store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")
	assert.Equal(t, 2, store.size())

	clock = base.Add(30 * time.Second)
	assert.Same(t, a, store.getLimiter("10.0.0.1"), "active client keeps its limiter")
	store.getLimiter("10.0.0.2")

	clock = base.Add(45 * time.Second)
	store.getLimiter("10.0.0.3")
	assert.Equal(t, 3, store.size(), "no sweep before the idle window has passed")

	// .1 and .2 were last seen at 30s, .3 at 45s
	clock = base.Add(95 * time.Second)
	store.getLimiter("10.0.0.4")
	assert.Equal(t, 2, store.size())

	assert.NotSame(t, a, store.getLimiter("10.0.0.1"), "idle client starts over with a fresh limiter")
}
