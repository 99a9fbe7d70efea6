package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ActorKey is the gin context key the authenticated user is stored under.
const ActorKey = "actor"

// Auth validates the Bearer JWT and resolves the authenticated user from
// the store, so handlers downstream always see a fresh role assignment
// rather than whatever role the token was issued with.
func Auth(jwtSecret []byte, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: extract Bearer token from the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized,
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrBadRequest,
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized,
				"Bearer token is empty")
			return
		}

		claims, err := parseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized, err.Error())
			return
		}

		userID, err := extractUserID(claims)
		if err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized, err.Error())
			return
		}

		actor, err := users.GetUserByID(userID)
		if err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, models.ErrUnauthorized,
				"Token subject no longer exists")
			return
		}

		c.Set(ActorKey, &actor)
		c.Next()
	}
}

// CurrentActor returns the authenticated user resolved by Auth, or nil when
// the request is unauthenticated.
func CurrentActor(c *gin.Context) *models.User {
	v, exists := c.Get(ActorKey)
	if !exists {
		return nil
	}
	actor, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return actor
}

// respondWithAuthError aborts the request with the standard error envelope
func respondWithAuthError(c *gin.Context, status int, code, description string) {
	c.JSON(status, models.NewAPIError(code, description))
	c.Abort()
}

// parseJWTToken validates and parses a JWT token using HMAC signing method
// Returns the claims if valid, error otherwise
func parseJWTToken(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	// Parse with validation
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		// This protects against attacks where an attacker changes the algorithm header
		// See: https://auth0.com/blog/critical-vulnerabilities-in-json-web-token-libraries/
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	return claims, nil
}

// parseAndValidateJWT parses the JWT and performs strict validation
func parseAndValidateJWT(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	claims, err := parseJWTToken(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Validate token expiration (exp claim)
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return nil, fmt.Errorf("token has expired")
	}

	// Validate not before (nbf claim) if present
	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf != nil && nbf.After(now) {
		return nil, fmt.Errorf("token not yet valid")
	}

	// Validate issued at (iat claim) - prevents using tokens issued in the future
	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now) {
		return nil, fmt.Errorf("token issued in the future")
	}

	return claims, nil
}

// extractUserID extracts and validates the user ID from the "uid" claim
func extractUserID(claims jwt.MapClaims) (uint, error) {
	// JSON numbers are parsed as float64
	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}

	return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
}
