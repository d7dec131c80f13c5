package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"coderr/config"
	"coderr/database"
	"coderr/models"
	"coderr/services/access"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

const principalKey = "principal"

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"iat":    time.Now().Unix(),                     // issued at
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// JWTMiddleware rejects requests without a valid token and stores the
// caller's principal for the handlers.
func JWTMiddleware(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication credentials were not provided.", nil)
	}
	return authenticate(c)
}

// OptionalJWTMiddleware lets anonymous requests through. A token that is
// present must still be valid.
func OptionalJWTMiddleware(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		c.Locals(principalKey, access.Anonymous())
		return c.Next()
	}
	return authenticate(c)
}

// CurrentPrincipal returns who the request runs as
func CurrentPrincipal(c *fiber.Ctx) access.Principal {
	if p, ok := c.Locals(principalKey).(access.Principal); ok {
		return p
	}
	return access.Anonymous()
}

func authenticate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
	}
	tokenString := authHeader[len("Bearer "):]

	userID, err := parseToken(tokenString)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	// Role and staff flag come from the stored user, not from the token
	var user models.User
	err = database.Database.Db.WithContext(c.UserContext()).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found", nil)
		}
		return ErrorResponse(c, fmt.Errorf("load token user: %w", err))
	}

	c.Locals("userId", user.ID)
	c.Locals(principalKey, access.User(user))
	return c.Next()
}

func parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Check if the token method is valid
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token payload")
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, errors.New("invalid token payload")
	}
	return uint(userID), nil
}
