package rayid_test

import (
	"net/http/httptest"
	"testing"

	"tablekeeper/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals("ray_id").(string)
		return c.SendString(rid)
	})

	t.Run("GeneratesID", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(rayid.Header))
	})

	t.Run("KeepsCallerID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(rayid.Header, "caller-ray")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "caller-ray", resp.Header.Get(rayid.Header))
	})
}
