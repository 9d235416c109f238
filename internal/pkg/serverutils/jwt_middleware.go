package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware validates the Authorization Bearer token and stashes the
// user id in locals for downstream handlers.
func JWTMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "missing Authorization header",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "invalid Authorization header format",
			})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "invalid token claims",
			})
		}

		userId, _ := claims["user_id"].(string)
		if userId == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "token missing user identity",
			})
		}

		ctx.Locals("user_id", userId)
		return ctx.Next()
	}
}

// UserIdFromCtx returns the authenticated user id set by JWTMiddleware.
func UserIdFromCtx(ctx *fiber.Ctx) string {
	userId, _ := ctx.Locals("user_id").(string)
	return userId
}
