package middleware

import (
	"errors"
	"strings"

	"github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/http/jwt"
	"github.com/go-portal/portal/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

// UserLookup resolves the stored role and active flag of a user.
// Authorization gates on the persisted state, not on what the token
// was minted with, so role changes and deactivation take effect
// without waiting for the token to expire.
type UserLookup func(userId string) (role string, active bool, err error)

// AuthorizationMiddleware validates the bearer token, resolves the
// user through lookup and stores the claims in locals. Only access
// tokens pass, refresh tokens are rejected here.
// This function is used as the middleware of fiber.
func AuthorizationMiddleware(secretKey string, lookup UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.AuthorizationIncorrect.Code, http.AuthorizationIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		if claims.Kind != jwt.KindAccess {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}

		role, active, err := lookup(claims.UserId)
		if err != nil || !active {
			if err != nil {
				log.Warnf("user lookup failed for %s: %v", claims.UserId, err)
			}
			return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
		}
		// The stored role supersedes the role frozen into the token.
		claims.Role = role

		c.Locals("claims", claims)
		return c.Next()
	}
}
