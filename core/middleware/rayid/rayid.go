// Package rayid provides the request tracing middleware.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the header carrying the request identifier.
const Header = "X-Ray-Id"

// New returns a middleware that assigns a unique request identifier to
// every incoming request. An identifier supplied by the caller is kept;
// otherwise a new one is generated. The identifier is stored in the
// request locals and echoed in the response header so log lines can be
// correlated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
