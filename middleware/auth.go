package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"restaurant-service/apperrors"
	"restaurant-service/models"
	"restaurant-service/repository"
)

const (
	ClaimsKey = "claims"
	EmailKey  = "email"
)

// TokenValidator is satisfied by services.TokenService.
type TokenValidator interface {
	Validate(token string) (jwt.MapClaims, error)
}

// VerifyJWT requires an "Authorization: Bearer <token>" header. A missing
// header is a 401; a token that fails verification is a 403.
func VerifyJWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			apperrors.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := tokens.Validate(bearerToken(authorization))
		if err != nil {
			apperrors.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		email, _ := claims["email"].(string)
		c.Set(ClaimsKey, claims)
		c.Set(EmailKey, email)
		c.Next()
	}
}

// VerifyAdmin must run after VerifyJWT. It looks the caller up by email on
// every request and rejects anyone whose stored role is not admin.
func VerifyAdmin(users repository.Collection[models.User]) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindOne(c.Request.Context(), repository.ByEmail(GetEmail(c)))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			apperrors.Abort(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetEmail returns the email decoded from the caller's token.
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
