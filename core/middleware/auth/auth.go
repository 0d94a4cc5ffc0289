// Package auth provides the API key middleware.
package auth

import "github.com/gofiber/fiber/v2"

// Header is the header carrying the client's API key.
const Header = "X-Api-Key"

// Config holds the middleware configuration.
type Config struct {
	// ApiKey is the expected key. When empty, the API is open.
	ApiKey string
}

// New returns a middleware that validates the API key header against the
// configured key.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if c.Get(Header) != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}
