package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/config"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/database"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/login", LoginAPI)
	auth.Post("/logout", LogoutAPI)
	auth.Post("/forgot-password", ForgotPasswordAPI)

	// Protected routes
	auth.Use(AuthMiddleware)
	auth.Get("/profile", ProfileAPI)
	auth.Post("/change-password", ChangePasswordAPI)
}

func ProfileAPI(c *fiber.Ctx) error {
	user, err := database.GetUserByID(config.GetDB(), c.Locals("user_id").(string))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load profile"})
	}
	roles, err := database.GetUserRoles(config.GetDB(), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load roles"})
	}
	user.Roles = roles
	return c.JSON(fiber.Map{"user": user})
}

func requestToken(c *fiber.Ctx) string {
	// Cookie first, then Authorization header
	if token := c.Cookies("jwt_token"); token != "" {
		return token
	}
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// AuthMiddleware validates the token, rejects revoked sessions and puts
// the actor's identity into the request context.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := requestToken(c)
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "No token found"})
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}

	// a logged-out token validates but its session row is gone
	if _, err := database.GetSessionByID(config.GetDB(), claims.ID); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Session expired"})
	}

	c.Locals("user_id", claims.UserID())
	c.Locals("user_email", claims.Email)
	c.Locals("user_roles", claims.Roles)
	c.Locals("session_id", claims.ID)

	return c.Next()
}

// RoleMiddleware checks if the actor holds one of the allowed roles
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRoles, _ := c.Locals("user_roles").([]string)

		for _, userRole := range userRoles {
			for _, allowedRole := range allowedRoles {
				if userRole == allowedRole {
					return c.Next()
				}
			}
		}

		return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}
