package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"

	"draftshop/internal/config"
	applog "draftshop/internal/log"
)

const adminRealm = "draftshop admin"

// RequireAdmin guards write routes with basic auth checked against the
// configured bcrypt hash. Without a hash every request is refused.
func RequireAdmin(cfg config.Config) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: adminRealm,
		Authorizer: func(user, pass string) bool {
			if !cfg.WritesEnabled() {
				return false
			}
			if subtle.ConstantTimeCompare([]byte(user), []byte(cfg.AdminUser)) != 1 {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(cfg.AdminHash), []byte(pass)) == nil
		},
		Unauthorized: func(c *fiber.Ctx) error {
			applog.Security(c, "access.denied.admin", nil)
			c.Set(fiber.HeaderWWWAuthenticate, `basic realm="`+adminRealm+`"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Access denied"})
		},
		ContextUsername: "admin",
	})
}
