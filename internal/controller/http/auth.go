package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
)

const claimsContextKey = "claims"

// Claims carries the authenticated identity through a request.
type Claims struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   model.Role `json:"role"`
	Name   string     `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken signs a 24h token for the user.
func GenerateToken(user *model.User, secret []byte) (string, time.Time, error) {
	expiresAt := time.Now().Add(24 * time.Hour)

	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "tutorhub",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign token: %w", err)
	}

	return token, expiresAt, nil
}

// ValidateToken parses and checks a bearer token.
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	return claims, nil
}

// authMiddleware extracts and validates the bearer token, storing the
// claims on the request context. Any failure maps to the 401 envelope
// the client redirects to login on.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return errUnauthorized
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return errUnauthorized
		}

		claims, err := ValidateToken(parts[1], s.opts.JWTSecret)
		if err != nil {
			return errUnauthorized
		}

		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

// requireRole gates a route group to one role; admins pass everywhere.
func requireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := contextClaims(c)
			if err != nil {
				return errUnauthorized
			}
			if claims.Role != role && claims.Role != model.RoleAdmin {
				return errForbidden
			}
			return next(c)
		}
	}
}

func contextClaims(c echo.Context) (*Claims, error) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	if !ok {
		return nil, fmt.Errorf("no claims on context")
	}
	return claims, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := s.opts.AuthSvc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	}

	token, expiresAt, err := GenerateToken(user, s.opts.JWTSecret)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=tutor parent admin"`
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := s.opts.AuthSvc.Register(c.Request().Context(), req.Email, req.Password, req.FullName, model.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}
