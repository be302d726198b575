package http_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain"
	apphttp "github.com/jhoicas/rentability-pro/internal/interfaces/http"
)

type countingInvalidator struct {
	bumps int
	err   error
}

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return c.err
}

func TestInvalidateOnWrite(t *testing.T) {
	inv := &countingInvalidator{}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.InvalidateOnWrite(inv, zerolog.Nop()))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Put("/x", func(c *fiber.Ctx) error { return c.Status(fiber.StatusBadRequest).SendString("no") })
	app.Delete("/x", func(c *fiber.Ctx) error { return domain.ErrNotFound })

	cases := []struct {
		method string
		status int
		bumps  int
	}{
		{fiber.MethodGet, fiber.StatusOK, 0},
		{fiber.MethodPost, fiber.StatusCreated, 1},
		{fiber.MethodPut, fiber.StatusBadRequest, 1},
		{fiber.MethodDelete, fiber.StatusNotFound, 1},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(tc.method, "/x", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.method)
		assert.Equal(t, tc.bumps, inv.bumps, tc.method)
	}
}

func TestInvalidateOnWrite_FalloNoAfectaRespuesta(t *testing.T) {
	inv := &countingInvalidator{err: errors.New("redis caído")}
	app := fiber.New()
	app.Use(apphttp.InvalidateOnWrite(inv, zerolog.Nop()))
	app.Post("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, inv.bumps)
}
